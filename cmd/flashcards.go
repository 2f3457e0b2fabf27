package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/parle/internal/formatter"
	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/tasks"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

func flashcardFilter(cmd *cli.Command) models.FlashcardFilter {
	return models.FlashcardFilter{
		Language: cmd.String("language"),
		Category: cmd.String("category"),
		Due:      cmd.Bool("due"),
	}
}

func (r *Runner) writeFlashcards(cards []models.Flashcard) error {
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{
			c.ID, c.Front, c.Back, c.Category,
			strconv.Itoa(c.ReviewCount), c.NextReview.String(),
		})
	}
	return r.writeTable(
		[]string{"ID", "Front", "Back", "Category", "Reviews", "Next review"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func (r *Runner) writeFlashcard(c *models.Flashcard, asJSON bool) error {
	if asJSON {
		return r.writeJSON(c, true)
	}
	return r.writeFlashcards([]models.Flashcard{*c})
}

// FlashcardsList prints cards matching the filter flags.
func (r *Runner) FlashcardsList(ctx context.Context, cmd *cli.Command) error {
	cards, err := r.client.Flashcards.List(ctx, flashcardFilter(cmd))
	if err != nil {
		return err
	}
	r.logger.Debug("fetched flashcards", "count", len(cards))

	if cmd.Bool("json") {
		return r.writeJSON(cards, true)
	}
	return r.writeFlashcards(cards)
}

func (r *Runner) FlashcardsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	card, err := r.client.Flashcards.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeFlashcard(card, cmd.Bool("json"))
}

func (r *Runner) FlashcardsCreate(ctx context.Context, cmd *cli.Command) error {
	in := models.FlashcardCreate{
		Language: cmd.String("language"),
		Front:    strings.TrimSpace(cmd.String("front")),
		Back:     strings.TrimSpace(cmd.String("back")),
		AudioURL: cmd.String("audio-url"),
		Tags:     cmd.StringSlice("tag"),
		Category: cmd.String("category"),
	}
	if in.Front == "" || in.Back == "" {
		return fmt.Errorf("%w: --front and --back are required", shared.ErrMissingArgument)
	}

	card, err := r.client.Flashcards.Create(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("flashcard created", "id", card.ID)
	return r.writeFlashcard(card, cmd.Bool("json"))
}

// FlashcardsUpdate sends only the flags that were set.
func (r *Runner) FlashcardsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	var in models.FlashcardUpdate
	in.Front = stringFlag(cmd, "front")
	in.Back = stringFlag(cmd, "back")
	in.Category = stringFlag(cmd, "category")
	in.AudioURL = stringFlag(cmd, "audio-url")
	in.Tags = sliceFlag(cmd, "tag")

	card, err := r.client.Flashcards.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.writeFlashcard(card, cmd.Bool("json"))
}

func (r *Runner) FlashcardsReview(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	card, err := r.client.Flashcards.Review(ctx, id, int(cmd.Int("quality")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(card, true)
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Next review %s (interval %d days)", card.NextReview, card.Interval))
}

func (r *Runner) FlashcardsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Flashcards.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Deleted flashcard %s", id))
}

// FlashcardsExport writes the filtered cards to a CSV or Markdown file.
func (r *Runner) FlashcardsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	cards, err := r.client.Flashcards.List(ctx, flashcardFilter(cmd))
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatter.FormatCSV:
		data, err = formatter.ExportFlashcardsCSV(cards)
	case formatter.FormatMarkdown:
		data, err = formatter.ExportFlashcardsMarkdown(cards, cmd.String("title"))
	default:
		return fmt.Errorf("%w: flashcards export as %s", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(data, cmd.String("output"), "flashcards", format)
	if err != nil {
		return err
	}
	r.logger.Info("exported flashcards", "count", len(cards), "path", path)
	return r.writePlain("%s\n", ui.Success(r.painter, "Exported %d flashcards to %s", len(cards), path))
}

// FlashcardsImport creates cards from a CSV file with a worker pool, printing progress as it goes.
func (r *Runner) FlashcardsImport(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	inputs, err := formatter.ParseFlashcardsCSV(f, cmd.String("language"))
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, len(inputs)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			r.logger.Debug(u.Message, "phase", u.Phase)
			if u.Phase == tasks.CreateCards {
				r.writePlain("%s\n", u.Message)
			}
		}
	}()

	result, err := tasks.NewImporter(r.client.Flashcards).Import(ctx, prog, inputs, tasks.ImportOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  r.config.API.RateLimit,
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.logger.Info("flashcard import finished", "created", result.Created, "failed", result.Failed)
	if result.Failed > 0 {
		r.writePlain("%s\n", ui.Failure(r.painter, "%d of %d flashcards failed", result.Failed, result.Total))
		if !r.session.IsAuthenticated() {
			return fmt.Errorf("%w: import stopped after the session ended", shared.ErrNotAuthenticated)
		}
		return nil
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Imported %d flashcards", result.Created))
}
