package ui

import (
	"strings"
	"testing"
)

// plain is a Painter that leaves text untouched.
type plain struct{}

func (plain) Title(s string) string { return "[title]" + s }
func (plain) OK(s string) string    { return "[ok]" + s }
func (plain) Err(s string) string   { return "[err]" + s }
func (plain) Warn(s string) string  { return "[warn]" + s }
func (plain) Help(s string) string  { return "[help]" + s }

func TestSessionBadge(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		email         string
		want          string
	}{
		{"logged out", false, "ignored@example.com", "[warn]● logged out"},
		{"logged in without profile", true, "", "[ok]● logged in"},
		{"logged in with profile", true, "user@example.com", "[ok]● logged in as user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionBadge(plain{}, tt.authenticated, tt.email); got != tt.want {
				t.Errorf("SessionBadge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	if got := Success(plain{}, "saved %d cards", 3); got != "[ok]✓ saved 3 cards" {
		t.Errorf("unexpected %q", got)
	}
	if got := Failure(plain{}, "nope"); got != "[err]✗ nope" {
		t.Errorf("unexpected %q", got)
	}
	if got := Heading(plain{}, "Routes"); got != "[title]Routes" {
		t.Errorf("unexpected %q", got)
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
	for name, render := range map[string]func(string) string{
		"title": p.Title, "ok": p.OK, "err": p.Err, "warn": p.Warn, "help": p.Help,
	} {
		if !strings.Contains(render("text"), "text") {
			t.Errorf("%s: expected text preserved", name)
		}
	}
}
