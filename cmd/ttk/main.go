// Command ttk is an interactive toolkit for turning meeting recordings into
// readable transcripts: it cleans WebVTT caption files, starts AWS Transcribe
// jobs, and reformats Transcribe JSON output into speaker-attributed text.
//
// Run with no flags for the interactive menu, or use -mode for scripted runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/audioscribe/transcript-toolkit/internal/config"
	"github.com/audioscribe/transcript-toolkit/internal/jobs"
	"github.com/audioscribe/transcript-toolkit/internal/transcript"
	"github.com/audioscribe/transcript-toolkit/internal/ui"
	"github.com/audioscribe/transcript-toolkit/internal/vtt"
)

const ruler = "=================================================="

func main() {
	config.LoadDefaultEnv()
	settings := config.Load()

	var (
		mode     string
		inPath   string
		outPath  string
		jobName  string
		bucket   string
		speakers int
		yes      bool
		verbose  bool
	)

	flag.StringVar(&mode, "mode", "", "Run one task directly: clean|start|convert|job (default: interactive menu)")
	flag.StringVar(&inPath, "input", "", "Input file path or S3 URI (-i)")
	flag.StringVar(&inPath, "i", "", "Input file path or S3 URI")
	flag.StringVar(&outPath, "output", "", "Output file path (-o)")
	flag.StringVar(&outPath, "o", "", "Output file path")
	flag.StringVar(&jobName, "job", "", "AWS Transcribe job name (mode=job)")
	flag.StringVar(&bucket, "bucket", "", "S3 bucket name (default from TTK_DEFAULT_BUCKET)")
	flag.IntVar(&speakers, "speakers", 2, "Expected number of speakers (2-30)")
	flag.BoolVar(&yes, "yes", false, "Accept defaults and skip interactive prompts")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug output")
	flag.Parse()

	p := ui.NewPrinter(verbose || settings.Verbose)
	if bucket == "" {
		bucket = settings.DefaultBucket
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch mode {
	case "":
		err = runMenu(ctx, p, settings)
	case "clean":
		err = runClean(p, inPath)
	case "start":
		err = runStart(ctx, p, settings, inPath, bucket, speakers, yes)
	case "convert":
		err = runConvertFile(p, inPath, outPath, yes)
	case "job":
		err = runConvertJob(ctx, p, settings, jobName, outPath, yes)
	default:
		p.Fail("unknown mode: %s", mode)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			os.Exit(130)
		}
		p.Fail("%v", err)
		os.Exit(1)
	}
}

func runMenu(ctx context.Context, p *ui.Printer, settings config.Settings) error {
	const (
		menuClean   = "Clean a VTT transcript"
		menuStart   = "Start an AWS transcription job"
		menuConvert = "Convert a Transcribe JSON file"
		menuBucket  = "Convert a Transcribe job (select by bucket)"
		menuJob     = "Convert a Transcribe job (by job name)"
		menuExit    = "Exit"
	)

	fmt.Fprintln(os.Stderr, `
===========================================
        Transcript Toolkit
===========================================`)

	for {
		choice, err := ui.AskSelect("What would you like to do?", []string{
			menuClean, menuStart, menuConvert, menuBucket, menuJob, menuExit,
		})
		if err != nil {
			return err
		}

		switch choice {
		case menuClean:
			err = runClean(p, "")
		case menuStart:
			err = runStart(ctx, p, settings, "", "", 0, false)
		case menuConvert:
			err = runConvertFile(p, "", "", false)
		case menuBucket:
			err = runConvertBucket(ctx, p, settings, "")
		case menuJob:
			err = runConvertJob(ctx, p, settings, "", "", false)
		case menuExit:
			fmt.Fprintln(os.Stderr, "Goodbye!")
			return nil
		}
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return err
			}
			p.Fail("%v", err)
		}
	}
}

func runClean(p *ui.Printer, inPath string) error {
	var err error
	if inPath == "" {
		inPath, err = ui.AskPath(p, "Path to your VTT file:")
	} else {
		inPath, err = ui.SanitizePath(inPath)
	}
	if err != nil {
		return err
	}

	var outPath string
	if err := p.Step("Cleaning transcript", func() error {
		outPath, err = vtt.CleanFile(inPath)
		return err
	}); err != nil {
		return err
	}
	p.Ok("Cleaned transcript saved to %s", outPath)
	return nil
}

func runStart(ctx context.Context, p *ui.Printer, settings config.Settings, inPath, bucket string, speakers int, yes bool) error {
	client, err := jobs.New(ctx, settings)
	if err != nil {
		return err
	}

	s3URI := inPath
	if inPath != "" && !strings.HasPrefix(inPath, "s3://") {
		s3URI, err = uploadAudio(ctx, p, client, settings, inPath, bucket, yes)
		if err != nil {
			return err
		}
	} else if inPath == "" {
		const (
			optUpload = "Upload a local audio file"
			optS3     = "Use an S3 URI for audio already on S3"
		)
		choice, err := ui.AskSelect("Choose a transcription method:", []string{optUpload, optS3})
		if err != nil {
			return err
		}
		if choice == optUpload {
			localPath, err := ui.AskPath(p, "Local audio file path (e.g. /path/to/file.mp3):")
			if err != nil {
				return err
			}
			s3URI, err = uploadAudio(ctx, p, client, settings, localPath, bucket, yes)
			if err != nil {
				return err
			}
		} else {
			s3URI, err = ui.AskRequiredText("S3 URI (e.g. s3://bucket/path/to/file.mp3):")
			if err != nil {
				return err
			}
		}
	}
	if !strings.HasPrefix(s3URI, "s3://") {
		return fmt.Errorf("invalid S3 URI %q, it should start with s3://", s3URI)
	}

	if speakers == 0 {
		raw, err := ui.AskText(fmt.Sprintf("Number of speakers (%d-%d):", config.MinSpeakers, config.MaxSpeakers), "2")
		if err != nil {
			return err
		}
		speakers, err = strconv.Atoi(raw)
		if err != nil {
			p.Warn("invalid speaker count %q, defaulting to %d", raw, config.MinSpeakers)
			speakers = config.MinSpeakers
		}
	}
	if clamped, adjusted := config.ClampSpeakers(speakers); adjusted {
		p.Warn("speaker count must be between %d and %d, using %d", config.MinSpeakers, config.MaxSpeakers, clamped)
		speakers = clamped
	}

	p.Info("Starting transcription job...")
	name, err := client.Start(ctx, s3URI, speakers)
	if err != nil {
		return err
	}
	p.Ok("Transcription job started: %s", name)
	return nil
}

func uploadAudio(ctx context.Context, p *ui.Printer, client *jobs.Client, settings config.Settings, localPath, bucket string, yes bool) (string, error) {
	localPath, err := ui.SanitizePath(localPath)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		if yes {
			bucket = settings.DefaultBucket
		} else {
			bucket, err = ui.AskText("Target S3 bucket name:", settings.DefaultBucket)
			if err != nil {
				return "", err
			}
		}
	}
	if err := client.ValidateBucket(ctx, bucket); err != nil {
		return "", err
	}

	var s3URI string
	if err := p.Step(fmt.Sprintf("Uploading %s to %s", filepath.Base(localPath), bucket), func() error {
		s3URI, err = client.Upload(ctx, localPath, bucket)
		return err
	}); err != nil {
		return "", err
	}
	return s3URI, nil
}

func runConvertFile(p *ui.Printer, inPath, outPath string, yes bool) error {
	var err error
	if inPath == "" {
		inPath, err = ui.AskPath(p, "Path to your AWS Transcribe JSON file:")
	} else {
		inPath, err = ui.SanitizePath(inPath)
	}
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read transcript file: %w", err)
	}

	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
		outPath = filepath.Join(filepath.Dir(inPath), base+"_processed.txt")
	}
	return convertAndSave(p, data, outPath, yes)
}

func runConvertBucket(ctx context.Context, p *ui.Printer, settings config.Settings, bucket string) error {
	client, err := jobs.New(ctx, settings)
	if err != nil {
		return err
	}

	for {
		if bucket == "" {
			bucket, err = ui.AskText("S3 bucket name of the audio file:", settings.DefaultBucket)
			if err != nil {
				return err
			}
		}

		var matching []jobs.Job
		if err := p.Step(fmt.Sprintf("Listing transcription jobs for %s", bucket), func() error {
			matching, err = client.ListByBucket(ctx, bucket)
			return err
		}); err != nil {
			return err
		}
		if len(matching) > 0 {
			return pickAndConvert(ctx, p, client, matching, false)
		}

		p.Warn("no transcription jobs found for bucket %q", bucket)
		retry, err := ui.AskConfirm("Try another bucket?", false)
		if err != nil {
			return err
		}
		if !retry {
			return nil
		}
		bucket = ""
	}
}

func pickAndConvert(ctx context.Context, p *ui.Printer, client *jobs.Client, matching []jobs.Job, yes bool) error {
	choices := make([]string, len(matching))
	byChoice := make(map[string]jobs.Job, len(matching))
	for i, job := range matching {
		choices[i] = fmt.Sprintf("%s - %s", job.Name, job.Status)
		byChoice[choices[i]] = job
	}

	selected, err := ui.AskSelect("Select a transcription job:", choices)
	if err != nil {
		return err
	}
	job := byChoice[selected]

	data, err := completedPayload(ctx, p, client, job, yes)
	if err != nil {
		return err
	}
	outPath := filepath.Join(".", job.Name+"_processed.txt")
	return convertAndSave(p, data, outPath, yes)
}

func runConvertJob(ctx context.Context, p *ui.Printer, settings config.Settings, jobName, outPath string, yes bool) error {
	client, err := jobs.New(ctx, settings)
	if err != nil {
		return err
	}

	if jobName == "" {
		jobName, err = ui.AskRequiredText("AWS Transcribe job name:")
		if err != nil {
			return err
		}
	}

	job, err := client.Get(ctx, jobName)
	if err != nil {
		return err
	}
	data, err := completedPayload(ctx, p, client, job, yes)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = job.Name + ".txt"
	}
	return convertAndSave(p, data, outPath, yes)
}

// completedPayload fetches the job's result JSON, offering to wait when the
// job has not finished. In -yes mode it always waits.
func completedPayload(ctx context.Context, p *ui.Printer, client *jobs.Client, job jobs.Job, yes bool) ([]byte, error) {
	if !job.Status.Terminal() {
		p.Info("Transcription job %s is currently %s.", job.Name, job.Status)
		wait := yes
		if !yes {
			var err error
			wait, err = ui.AskConfirm("Wait for the job to complete?", true)
			if err != nil {
				return nil, err
			}
		}
		if !wait {
			return nil, fmt.Errorf("job %s is not complete", job.Name)
		}

		var err error
		job, err = client.Wait(ctx, job.Name, func(jobs.Status) {
			fmt.Fprint(os.Stderr, ".")
		})
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
	}

	if job.Status == jobs.StatusFailed {
		reason := job.FailureReason
		if reason == "" {
			reason = "unknown error"
		}
		return nil, fmt.Errorf("transcription job %s failed: %s", job.Name, reason)
	}
	return client.FetchTranscript(ctx, job.TranscriptURI)
}

// convertAndSave runs the reconciler over the payload, prompting for speaker
// names unless yes is set, prints the result, and writes it to outPath.
func convertAndSave(p *ui.Printer, data []byte, outPath string, yes bool) error {
	payload, err := transcript.Parse(data)
	if err != nil {
		return err
	}
	norm, warnings := transcript.Normalize(payload)
	p.Warnings(warnings)

	var names transcript.NameMap
	if yes {
		names = ui.DefaultSpeakerNames(norm.Speakers)
	} else {
		names, err = ui.SpeakerNames(p, norm.SpeakerCount, norm.Speakers)
		if err != nil {
			return err
		}
	}

	matched := transcript.Match(norm)
	text, assembleWarnings := transcript.Assemble(norm, matched, names)
	p.Warnings(assembleWarnings)
	if text == "" {
		p.Warn("processed transcript is empty")
	}

	fmt.Println("\nProcessed Transcript:")
	fmt.Println(ruler)
	fmt.Println(text)
	fmt.Println(ruler)

	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	p.Ok("Transcript saved to %s", outPath)
	return nil
}
