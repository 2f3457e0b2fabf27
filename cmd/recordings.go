package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeRecordings(recs []models.Recording) error {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.ID, rec.Language, rec.ExerciseType, fmt.Sprintf("%ds", rec.Duration),
			rec.AudioURL, rec.CreatedAt.String(),
		})
	}
	return r.writeTable(
		[]string{"ID", "Language", "Exercise", "Duration", "Audio", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}

// RecordingsUpload sends an audio file to the recordings store.
func (r *Runner) RecordingsUpload(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	r.logger.Info("uploading recording", "file", path)
	payload, err := r.client.Recordings.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	return r.writeRaw(payload)
}

func (r *Runner) RecordingsList(ctx context.Context, cmd *cli.Command) error {
	recs, err := r.client.Recordings.List(ctx, models.RecordingFilter{
		Language:     cmd.String("language"),
		ExerciseType: cmd.String("exercise-type"),
	})
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(recs, true)
	}
	return r.writeRecordings(recs)
}

func (r *Runner) RecordingsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	rec, err := r.client.Recordings.Get(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(rec, true)
	}
	return r.writeRecordings([]models.Recording{*rec})
}

func (r *Runner) RecordingsCreate(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.client.Recordings.Create(ctx, models.RecordingCreate{
		Language:     cmd.String("language"),
		ExerciseType: cmd.String("exercise-type"),
		Duration:     int(cmd.Int("duration")),
		Transcript:   cmd.String("transcript"),
		Notes:        cmd.String("notes"),
		AudioURL:     cmd.String("audio-url"),
	})
	if err != nil {
		return err
	}
	r.logger.Info("recording saved", "id", rec.ID)
	if cmd.Bool("json") {
		return r.writeJSON(rec, true)
	}
	return r.writeRecordings([]models.Recording{*rec})
}

func (r *Runner) RecordingsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var in models.RecordingUpdate
	in.Language = stringFlag(cmd, "language")
	in.ExerciseType = stringFlag(cmd, "exercise-type")
	in.Duration = intFlag(cmd, "duration")
	in.Transcript = stringFlag(cmd, "transcript")
	in.Notes = stringFlag(cmd, "notes")

	rec, err := r.client.Recordings.Update(ctx, id, in)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(rec, true)
	}
	return r.writeRecordings([]models.Recording{*rec})
}

func (r *Runner) RecordingsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Recordings.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Deleted recording %s", id))
}
