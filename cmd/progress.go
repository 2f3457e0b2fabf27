package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeProgress(records []models.Progress) error {
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{
			p.ID, p.Date.Format(dateLayout), p.Language,
			strconv.FormatFloat(p.HoursStudied, 'f', 1, 64),
			strconv.Itoa(p.CardsReviewed), strconv.Itoa(p.ExercisesCompleted),
		})
	}
	return r.writeTable(
		[]string{"ID", "Date", "Language", "Hours", "Cards", "Exercises"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

func (r *Runner) writeRecord(p *models.Progress, asJSON bool) error {
	if asJSON {
		return r.writeJSON(p, true)
	}
	return r.writeProgress([]models.Progress{*p})
}

func (r *Runner) ProgressList(ctx context.Context, cmd *cli.Command) error {
	from, err := dateFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, "to")
	if err != nil {
		return err
	}

	records, err := r.client.Progress.List(ctx, models.ProgressFilter{
		Language:  cmd.String("language"),
		StartDate: from,
		EndDate:   to,
	})
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}
	return r.writeProgress(records)
}

// ProgressStats prints the server's aggregate for the period as JSON.
func (r *Runner) ProgressStats(ctx context.Context, cmd *cli.Command) error {
	period := cmd.String("period")
	if !slices.Contains(models.StatsPeriods, period) {
		return fmt.Errorf("%w: --period must be one of %v", shared.ErrInvalidFlag, models.StatsPeriods)
	}

	stats, err := r.client.Progress.Stats(ctx, models.StatsFilter{Language: cmd.String("language"), Period: period})
	if err != nil {
		return err
	}
	return r.writeRaw(stats)
}

func (r *Runner) ProgressGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	record, err := r.client.Progress.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeRecord(record, cmd.Bool("json"))
}

func (r *Runner) ProgressCreate(ctx context.Context, cmd *cli.Command) error {
	date, err := dateFlag(cmd, "date")
	if err != nil {
		return err
	}
	if date.IsZero() {
		y, m, d := time.Now().Date()
		date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	record, err := r.client.Progress.Create(ctx, models.ProgressCreate{
		Language:           cmd.String("language"),
		Date:               models.Timestamp{Time: date},
		HoursStudied:       cmd.Float("hours"),
		CardsReviewed:      int(cmd.Int("cards")),
		ExercisesCompleted: int(cmd.Int("exercises")),
	})
	if err != nil {
		return err
	}
	r.logger.Info("progress logged", "id", record.ID, "date", date.Format(dateLayout))
	return r.writeRecord(record, cmd.Bool("json"))
}

func (r *Runner) ProgressUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	record, err := r.client.Progress.Update(ctx, id, models.ProgressUpdate{
		HoursStudied:       floatFlag(cmd, "hours"),
		CardsReviewed:      intFlag(cmd, "cards"),
		ExercisesCompleted: intFlag(cmd, "exercises"),
	})
	if err != nil {
		return err
	}
	return r.writeRecord(record, cmd.Bool("json"))
}

func (r *Runner) ProgressDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Progress.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Deleted progress record %s", id))
}
