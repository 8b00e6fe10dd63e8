package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TTK_DEFAULT_BUCKET", "TTK_LANGUAGE", "TTK_POLL_INTERVAL", "TTK_VERBOSE"} {
		t.Setenv(key, "")
	}
	st := Load()
	require.Equal(t, "internal-audio-recordings", st.DefaultBucket)
	require.Equal(t, "en-US", st.Language)
	require.Equal(t, 30*time.Second, st.PollInterval)
	require.False(t, st.Verbose)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TTK_DEFAULT_BUCKET", "my-recordings")
	t.Setenv("TTK_LANGUAGE", "de-DE")
	t.Setenv("TTK_POLL_INTERVAL", "5s")
	t.Setenv("TTK_VERBOSE", "true")

	st := Load()
	require.Equal(t, "my-recordings", st.DefaultBucket)
	require.Equal(t, "de-DE", st.Language)
	require.Equal(t, 5*time.Second, st.PollInterval)
	require.True(t, st.Verbose)
}

func TestLoadBadPollInterval(t *testing.T) {
	t.Setenv("TTK_POLL_INTERVAL", "soon")
	require.Equal(t, 30*time.Second, Load().PollInterval)
}

func TestClampSpeakers(t *testing.T) {
	tests := []struct {
		in          int
		want        int
		wantClamped bool
	}{
		{1, 2, true},
		{2, 2, false},
		{12, 12, false},
		{30, 30, false},
		{31, 30, true},
	}
	for _, tt := range tests {
		got, clamped := ClampSpeakers(tt.in)
		require.Equal(t, tt.want, got)
		require.Equal(t, tt.wantClamped, clamped)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# comment\n" +
		"export TTK_TEST_A=plain\n" +
		"TTK_TEST_B=\"quoted \\\"value\\\"\"\n" +
		"TTK_TEST_C='single literal'\n" +
		"not a valid line\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("TTK_TEST_A", "")
	t.Setenv("TTK_TEST_B", "")
	t.Setenv("TTK_TEST_C", "")
	LoadEnv(envFile)

	require.Equal(t, "plain", os.Getenv("TTK_TEST_A"))
	require.Equal(t, `quoted "value"`, os.Getenv("TTK_TEST_B"))
	require.Equal(t, "single literal", os.Getenv("TTK_TEST_C"))
}
