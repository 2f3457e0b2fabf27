package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// weekdays is indexed by ScheduleBlock.DayOfWeek, Monday first.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func dayName(d int) string {
	if d < 0 || d >= len(weekdays) {
		return strconv.Itoa(d)
	}
	return weekdays[d].String()
}

func validDay(d *int) error {
	if d != nil && (*d < 0 || *d >= len(weekdays)) {
		return fmt.Errorf("%w: --day must be between 0 (Monday) and 6", shared.ErrInvalidFlag)
	}
	return nil
}

func (r *Runner) writeSchedule(blocks []models.ScheduleBlock) error {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		done := ""
		if b.Completed {
			done = "✓"
		}
		rows = append(rows, []string{
			b.ID, dayName(b.DayOfWeek), b.StartTime, fmt.Sprintf("%d min", b.Duration),
			b.ActivityType, b.ActivityName, done,
		})
	}
	return r.writeTable(
		[]string{"ID", "Day", "Start", "Duration", "Type", "Activity", "Done"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func (r *Runner) writeBlock(b *models.ScheduleBlock, asJSON bool) error {
	if asJSON {
		return r.writeJSON(b, true)
	}
	return r.writeSchedule([]models.ScheduleBlock{*b})
}

func (r *Runner) ScheduleList(ctx context.Context, cmd *cli.Command) error {
	day := intFlag(cmd, "day")
	if err := validDay(day); err != nil {
		return err
	}

	blocks, err := r.client.Schedule.List(ctx, models.ScheduleFilter{DayOfWeek: day})
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(blocks, true)
	}
	return r.writeSchedule(blocks)
}

func (r *Runner) ScheduleGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	block, err := r.client.Schedule.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeBlock(block, cmd.Bool("json"))
}

func (r *Runner) ScheduleCreate(ctx context.Context, cmd *cli.Command) error {
	day := int(cmd.Int("day"))
	if err := validDay(&day); err != nil {
		return err
	}
	if cmd.String("start") == "" || cmd.String("name") == "" {
		return fmt.Errorf("%w: --start and --name are required", shared.ErrMissingArgument)
	}

	block, err := r.client.Schedule.Create(ctx, models.ScheduleBlockCreate{
		DayOfWeek:    day,
		StartTime:    cmd.String("start"),
		Duration:     int(cmd.Int("duration")),
		ActivityType: cmd.String("type"),
		ActivityName: cmd.String("name"),
		Completed:    cmd.Bool("completed"),
	})
	if err != nil {
		return err
	}
	r.logger.Info("schedule block created", "id", block.ID)
	return r.writeBlock(block, cmd.Bool("json"))
}

func (r *Runner) ScheduleUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	in := models.ScheduleBlockUpdate{
		DayOfWeek:    intFlag(cmd, "day"),
		StartTime:    stringFlag(cmd, "start"),
		Duration:     intFlag(cmd, "duration"),
		ActivityType: stringFlag(cmd, "type"),
		ActivityName: stringFlag(cmd, "name"),
		Completed:    boolFlag(cmd, "completed"),
	}
	if err := validDay(in.DayOfWeek); err != nil {
		return err
	}

	block, err := r.client.Schedule.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return r.writeBlock(block, cmd.Bool("json"))
}

func (r *Runner) ScheduleComplete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	block, err := r.client.Schedule.Complete(ctx, id)
	if err != nil {
		return err
	}
	return r.writeBlock(block, cmd.Bool("json"))
}

func (r *Runner) ScheduleDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Schedule.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Deleted schedule block %s", id))
}
