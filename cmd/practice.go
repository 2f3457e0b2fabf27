package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// withFile opens the file named by the argument and passes its base name and contents to fn.
func withFile(cmd *cli.Command, arg string, fn func(name string, content io.Reader) (models.Payload, error)) (models.Payload, error) {
	path, err := requireArg(cmd, arg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", arg, err)
	}
	defer f.Close()

	return fn(filepath.Base(path), f)
}

// PracticeOCR extracts text from an image.
func (r *Runner) PracticeOCR(ctx context.Context, cmd *cli.Command) error {
	payload, err := withFile(cmd, "image", func(name string, content io.Reader) (models.Payload, error) {
		return r.client.Practice.UploadImage(ctx, name, content)
	})
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

func (r *Runner) PracticeAnalyze(ctx context.Context, cmd *cli.Command) error {
	payload, err := r.client.Practice.AnalyzeText(ctx, cmd.String("text"))
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

// PracticeSpeech scores pronunciation of an audio file.
func (r *Runner) PracticeSpeech(ctx context.Context, cmd *cli.Command) error {
	payload, err := withFile(cmd, "audio", func(name string, content io.Reader) (models.Payload, error) {
		return r.client.Practice.AnalyzeSpeech(ctx, name, content, cmd.String("expected"))
	})
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

func (r *Runner) PracticeProsody(ctx context.Context, cmd *cli.Command) error {
	payload, err := withFile(cmd, "audio", func(name string, content io.Reader) (models.Payload, error) {
		return r.client.Practice.AnalyzeProsody(ctx, name, content, cmd.String("expected"))
	})
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

func (r *Runner) PracticeTTS(ctx context.Context, cmd *cli.Command) error {
	payload, err := r.client.Practice.GenerateSpeech(ctx, models.SpeechRequest{
		Text:     cmd.String("text"),
		Language: cmd.String("language"),
		Slow:     cmd.Bool("slow"),
	})
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

// PracticeAudio downloads a generated speech file.
func (r *Runner) PracticeAudio(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	data, err := r.client.Practice.AudioFile(ctx, name)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = filepath.Base(name)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Saved %d bytes to %s", len(data), path))
}

// PracticeSummary evaluates a spoken summary against its source text.
func (r *Runner) PracticeSummary(ctx context.Context, cmd *cli.Command) error {
	if err := r.enter("/summary/" + cmd.String("text-id")); err != nil {
		return err
	}

	payload, err := withFile(cmd, "audio", func(name string, content io.Reader) (models.Payload, error) {
		return r.client.Practice.EvaluateSummary(ctx, name, content, cmd.String("source"))
	})
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

func (r *Runner) PracticeSuggest(ctx context.Context, cmd *cli.Command) error {
	if err := r.enter("/summary/" + cmd.String("text-id")); err != nil {
		return err
	}

	payload, err := r.client.Practice.GenerateSuggestions(ctx, cmd.String("source"))
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

// PracticeHealth calls the public health endpoint; it needs no session.
func (r *Runner) PracticeHealth(ctx context.Context, cmd *cli.Command) error {
	payload, err := r.client.Practice.Health(ctx)
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}
