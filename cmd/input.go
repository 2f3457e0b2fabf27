package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptLine prints label and reads one line from the runner's input.
func (r *Runner) promptLine(label string) (string, error) {
	if _, err := fmt.Fprint(r.output, label+": "); err != nil {
		return "", err
	}

	if r.lines == nil {
		r.lines = bufio.NewReader(r.input)
	}
	line, err := r.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when input is a terminal, and a plain
// line otherwise.
func (r *Runner) promptPassword(label string) (string, error) {
	f, ok := r.input.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return r.promptLine(label)
	}

	if _, err := fmt.Fprint(r.output, label+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(r.output)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
