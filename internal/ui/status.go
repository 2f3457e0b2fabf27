package ui

import "fmt"

// SessionBadge renders the authentication state, with the user's email when known.
func SessionBadge(p Painter, authenticated bool, email string) string {
	if !authenticated {
		return p.Warn("● logged out")
	}
	if email == "" {
		return p.OK("● logged in")
	}
	return p.OK(fmt.Sprintf("● logged in as %s", email))
}

// Success prefixes msg with a check mark.
func Success(p Painter, format string, args ...any) string {
	return p.OK("✓ ") + fmt.Sprintf(format, args...)
}

// Failure prefixes msg with a cross.
func Failure(p Painter, format string, args ...any) string {
	return p.Err("✗ ") + fmt.Sprintf(format, args...)
}

// Heading renders a section title.
func Heading(p Painter, title string) string {
	return p.Title(title)
}
