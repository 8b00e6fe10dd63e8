package config

import (
	"os"
	"strconv"
	"time"
)

// Speaker diarization bounds accepted by Transcribe jobs started from the
// toolkit.
const (
	MinSpeakers = 2
	MaxSpeakers = 30
)

// Settings holds toolkit configuration read from the environment.
type Settings struct {
	// DefaultBucket is the S3 bucket offered when a prompt is left blank.
	DefaultBucket string
	// Language is the transcription language code passed to Transcribe.
	Language string
	// PollInterval is how often job status is polled while waiting.
	PollInterval time.Duration
	// Verbose enables debug output.
	Verbose bool
}

// Load reads Settings from the environment, applying defaults for anything
// unset.
func Load() Settings {
	return Settings{
		DefaultBucket: getEnv("TTK_DEFAULT_BUCKET", "internal-audio-recordings"),
		Language:      getEnv("TTK_LANGUAGE", "en-US"),
		PollInterval:  getDuration("TTK_POLL_INTERVAL", 30*time.Second),
		Verbose:       getBool("TTK_VERBOSE", false),
	}
}

// ClampSpeakers forces n into the accepted diarization range, reporting
// whether it had to be adjusted.
func ClampSpeakers(n int) (int, bool) {
	if n < MinSpeakers {
		return MinSpeakers, true
	}
	if n > MaxSpeakers {
		return MaxSpeakers, true
	}
	return n, false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
