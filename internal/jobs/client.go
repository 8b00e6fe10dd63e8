// Package jobs drives AWS Transcribe: starting diarized transcription jobs,
// polling them to a terminal state, and retrieving their JSON output. It is
// a thin sequential wrapper around the AWS SDK; all transcript understanding
// lives in internal/transcript.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	transcribetypes "github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/google/uuid"

	"github.com/audioscribe/transcript-toolkit/internal/config"
)

// Status is a transcription job state as reported by Transcribe.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether the job will not change state again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a snapshot of a transcription job.
type Job struct {
	Name          string
	Status        Status
	MediaURI      string
	TranscriptURI string
	FailureReason string
}

// Client wraps the Transcribe and S3 clients with toolkit settings.
type Client struct {
	transcribe *transcribe.Client
	s3         *s3.Client
	settings   config.Settings
}

// New loads the default AWS configuration and verifies credentials are
// available, matching the AWS CLI's resolution order.
func New(ctx context.Context, settings config.Settings) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("aws credentials not found, configure the AWS CLI: %w", err)
	}
	return &Client{
		transcribe: transcribe.NewFromConfig(cfg),
		s3:         s3.NewFromConfig(cfg),
		settings:   settings,
	}, nil
}

var jobNameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// JobName derives a Transcribe-safe job name from the media file's S3 URI.
func JobName(s3URI string) string {
	filename := path.Base(s3URI)
	base := strings.SplitN(filename, ".", 2)[0]
	name := jobNameRe.ReplaceAllString(base, "-")
	if name == "" {
		name = "transcription-job"
	}
	return name
}

// MediaFormat guesses the Transcribe media format from the URI's extension.
func MediaFormat(s3URI string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(s3URI), "."))
}

// Start begins a transcription job for the media at s3URI with speaker
// diarization and channel identification enabled. When the derived job name
// is already taken, it retries once with a short unique suffix.
func (c *Client) Start(ctx context.Context, s3URI string, maxSpeakers int) (string, error) {
	name := JobName(s3URI)
	err := c.startJob(ctx, name, s3URI, maxSpeakers)
	var conflict *transcribetypes.ConflictException
	if errors.As(err, &conflict) {
		name = fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])
		err = c.startJob(ctx, name, s3URI, maxSpeakers)
	}
	if err != nil {
		return "", fmt.Errorf("start transcription job: %w", err)
	}
	return name, nil
}

func (c *Client) startJob(ctx context.Context, name, s3URI string, maxSpeakers int) error {
	_, err := c.transcribe.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
		Media:                &transcribetypes.Media{MediaFileUri: aws.String(s3URI)},
		MediaFormat:          transcribetypes.MediaFormat(MediaFormat(s3URI)),
		LanguageCode:         transcribetypes.LanguageCode(c.settings.Language),
		Settings: &transcribetypes.Settings{
			ShowSpeakerLabels:     aws.Bool(true),
			MaxSpeakerLabels:      aws.Int32(int32(maxSpeakers)),
			ChannelIdentification: aws.Bool(true),
		},
	})
	return err
}

// Get fetches the current snapshot of a job.
func (c *Client) Get(ctx context.Context, name string) (Job, error) {
	out, err := c.transcribe.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return Job{}, fmt.Errorf("get transcription job %q: %w", name, err)
	}
	return snapshot(out.TranscriptionJob), nil
}

// Wait polls the job until it reaches a terminal state. tick, when non-nil,
// runs after every poll so callers can show progress.
func (c *Client) Wait(ctx context.Context, name string, tick func(Status)) (Job, error) {
	for {
		job, err := c.Get(ctx, name)
		if err != nil {
			return Job{}, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
		if tick != nil {
			tick(job.Status)
		}
		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-time.After(c.settings.PollInterval):
		}
	}
}

// ListByBucket returns all transcription jobs whose media lives under
// s3://<bucket>/, most recent API order preserved.
func (c *Client) ListByBucket(ctx context.Context, bucket string) ([]Job, error) {
	prefix := fmt.Sprintf("s3://%s/", bucket)

	var matching []Job
	paginator := transcribe.NewListTranscriptionJobsPaginator(c.transcribe, &transcribe.ListTranscriptionJobsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list transcription jobs: %w", err)
		}
		for _, summary := range page.TranscriptionJobSummaries {
			job, err := c.Get(ctx, aws.ToString(summary.TranscriptionJobName))
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(job.MediaURI, prefix) {
				matching = append(matching, job)
			}
		}
	}
	return matching, nil
}

func snapshot(tj *transcribetypes.TranscriptionJob) Job {
	job := Job{
		Name:          aws.ToString(tj.TranscriptionJobName),
		Status:        Status(tj.TranscriptionJobStatus),
		FailureReason: aws.ToString(tj.FailureReason),
	}
	if tj.Media != nil {
		job.MediaURI = aws.ToString(tj.Media.MediaFileUri)
	}
	if tj.Transcript != nil {
		job.TranscriptURI = aws.ToString(tj.Transcript.TranscriptFileUri)
	}
	return job
}
