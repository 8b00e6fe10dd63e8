package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ValidateBucket checks that the bucket exists and is accessible,
// distinguishing missing buckets from permission problems.
func (c *Client) ValidateBucket(ctx context.Context, bucket string) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound":
			return fmt.Errorf("bucket %q does not exist", bucket)
		case "Forbidden", "AccessDenied":
			return fmt.Errorf("no permission to access bucket %q", bucket)
		}
	}
	return fmt.Errorf("validate bucket %q: %w", bucket, err)
}

// Upload puts a local audio file into the bucket under its base name and
// returns the resulting s3:// URI.
func (c *Client) Upload(ctx context.Context, localPath, bucket string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", localPath, err)
	}
	defer f.Close()

	key := filepath.Base(localPath)
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied" {
			return "", fmt.Errorf("permission denied writing to bucket %q", bucket)
		}
		return "", fmt.Errorf("upload %q: %w", localPath, err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// FetchTranscript downloads a completed job's result payload. Transcribe
// hands back either an s3.amazonaws.com URI (read via the S3 API, so bucket
// permissions apply) or a pre-signed HTTPS URL fetched directly.
func (c *Client) FetchTranscript(ctx context.Context, transcriptURI string) ([]byte, error) {
	if bucket, key, ok := parseS3HTTPURI(transcriptURI); ok {
		out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("fetch transcript from s3://%s/%s: %w", bucket, key, err)
		}
		defer out.Body.Close()
		return io.ReadAll(out.Body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transcriptURI, nil)
	if err != nil {
		return nil, err
	}
	hc := &http.Client{Timeout: 2 * time.Minute}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch transcript: http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseS3HTTPURI splits path-style s3.amazonaws.com URLs into bucket and key.
func parseS3HTTPURI(raw string) (bucket, key string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host != "s3.amazonaws.com" {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
