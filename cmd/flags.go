package main

import (
	"fmt"
	"time"

	"github.com/desertthunder/parle/internal/shared"
	"github.com/urfave/cli/v3"
)

const dateLayout = "2006-01-02"

// The helpers below return nil for flags that were not given, so partial updates
// leave those fields untouched.

func stringFlag(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

func sliceFlag(cmd *cli.Command, name string) *[]string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.StringSlice(name)
	return &v
}

func intFlag(cmd *cli.Command, name string) *int {
	if !cmd.IsSet(name) {
		return nil
	}
	v := int(cmd.Int(name))
	return &v
}

func boolFlag(cmd *cli.Command, name string) *bool {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Bool(name)
	return &v
}

func floatFlag(cmd *cli.Command, name string) *float64 {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Float(name)
	return &v
}

func dateFlag(cmd *cli.Command, name string) (time.Time, error) {
	raw := cmd.String(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must be YYYY-MM-DD", shared.ErrInvalidFlag, name)
	}
	return t, nil
}
