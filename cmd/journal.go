package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/parle/internal/formatter"
	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func (r *Runner) writeJournal(entries []models.JournalEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID, e.CreatedAt.String(), excerpt(e.Content, 60), strings.Join(e.NewPhrases, ", "),
		})
	}
	return r.writeTable([]string{"ID", "Created", "Content", "New phrases"}, rows, nil)
}

func (r *Runner) writeEntry(e *models.JournalEntry, asJSON bool) error {
	if asJSON {
		return r.writeJSON(e, true)
	}
	data, err := formatter.ExportJournalText([]models.JournalEntry{*e})
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

func (r *Runner) JournalList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.client.Journal.List(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writeJournal(entries)
}

func (r *Runner) JournalGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	entry, err := r.client.Journal.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeEntry(entry, cmd.Bool("json"))
}

// JournalCreate reads the entry text from --content, or from input when it is not given.
func (r *Runner) JournalCreate(ctx context.Context, cmd *cli.Command) error {
	content := strings.TrimSpace(cmd.String("content"))
	if content == "" {
		line, err := r.promptLine("Entry")
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		content = line
	}
	if content == "" {
		return fmt.Errorf("%w: content", shared.ErrMissingArgument)
	}

	entry, err := r.client.Journal.Create(ctx, models.JournalEntryCreate{
		Content:      content,
		Practiced:    cmd.StringSlice("practiced"),
		Difficulties: cmd.StringSlice("difficulty"),
		Improvements: cmd.StringSlice("improvement"),
		NewPhrases:   cmd.StringSlice("phrase"),
	})
	if err != nil {
		return err
	}
	r.logger.Info("journal entry created", "id", entry.ID)
	return r.writeEntry(entry, cmd.Bool("json"))
}

func (r *Runner) JournalUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	entry, err := r.client.Journal.Update(ctx, id, models.JournalEntryUpdate{
		Content:      stringFlag(cmd, "content"),
		Practiced:    sliceFlag(cmd, "practiced"),
		Difficulties: sliceFlag(cmd, "difficulty"),
		Improvements: sliceFlag(cmd, "improvement"),
		NewPhrases:   sliceFlag(cmd, "phrase"),
	})
	if err != nil {
		return err
	}
	return r.writeEntry(entry, cmd.Bool("json"))
}

func (r *Runner) JournalDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Journal.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Deleted journal entry %s", id))
}

// JournalExport writes every entry to a Markdown or plain text file.
func (r *Runner) JournalExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	entries, err := r.client.Journal.List(ctx)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatter.FormatMarkdown:
		data, err = formatter.ExportJournalMarkdown(entries)
	case formatter.FormatText:
		data, err = formatter.ExportJournalText(entries)
	default:
		return fmt.Errorf("%w: journal export as %s", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(data, cmd.String("output"), "journal", format)
	if err != nil {
		return err
	}
	r.logger.Info("exported journal", "count", len(entries), "path", path)
	return r.writePlain("%s\n", ui.Success(r.painter, "Exported %d entries to %s", len(entries), path))
}
