// Package ui styles CLI output with lipgloss: headings, status lines, and the session badge.
//
// Colors degrade to plain text when the output is not a terminal.
package ui
