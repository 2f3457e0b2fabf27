package shared

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() { getRuntime, startCommand = origRuntime, origStart })

	t.Run("uses platform opener", func(t *testing.T) {
		var started *exec.Cmd
		startCommand = func(cmd *exec.Cmd) error { started = cmd; return nil }

		for rt, bin := range map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "rundll32"} {
			getRuntime = func() string { return rt }
			if err := OpenBrowser("http://localhost:5173/dashboard"); err != nil {
				t.Fatalf("%s: expected no error, got %v", rt, err)
			}
			if !strings.HasSuffix(started.Path, bin) && started.Args[0] != bin {
				t.Errorf("%s: expected %s, got %v", rt, bin, started.Args)
			}
			if started.Args[len(started.Args)-1] != "http://localhost:5173/dashboard" {
				t.Errorf("%s: expected URL as last arg, got %v", rt, started.Args)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("http://x"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCommand = func(*exec.Cmd) error { return errors.New("boom") }
		err := OpenBrowser("http://x")
		if err == nil || !strings.Contains(err.Error(), "failed to open browser") {
			t.Errorf("expected wrapped start error, got %v", err)
		}
	})
}
