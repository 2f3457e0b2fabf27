// package formatter exports flashcards and journal entries to files (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
)

// ExportFlashcardsCSV converts flashcards to CSV with columns: ID, Language, Front, Back, Category, Tags, NextReview, Interval, EaseFactor, Reviews
//
// Tags are joined with spaces, the separator Anki expects on import.
func ExportFlashcardsCSV(cards []models.Flashcard) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Language", "Front", "Back", "Category", "Tags", "NextReview", "Interval", "EaseFactor", "Reviews"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, card := range cards {
		record := []string{
			card.ID,
			card.Language,
			card.Front,
			card.Back,
			card.Category,
			strings.Join(card.Tags, " "),
			card.NextReview.String(),
			strconv.Itoa(card.Interval),
			strconv.FormatFloat(card.EaseFactor, 'f', 2, 64),
			strconv.Itoa(card.ReviewCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportFlashcardsMarkdown renders flashcards as a Markdown table grouped by category.
func ExportFlashcardsMarkdown(cards []models.Flashcard, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Flashcards"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(cards)))

	order := []string{}
	groups := map[string][]models.Flashcard{}
	for _, card := range cards {
		category := card.Category
		if category == "" {
			category = "uncategorized"
		}
		if _, ok := groups[category]; !ok {
			order = append(order, category)
		}
		groups[category] = append(groups[category], card)
	}

	for _, category := range order {
		buf.WriteString(fmt.Sprintf("## %s\n\n", category))
		buf.WriteString("| Front | Back | Next review |\n|---|---|---|\n")
		for _, card := range groups[category] {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n", cell(card.Front), cell(card.Back), card.NextReview))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportJournalMarkdown renders journal entries, newest first as given, one section per entry.
func ExportJournalMarkdown(entries []models.JournalEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Journal\n\n")
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n\n", len(entries)))

	for _, entry := range entries {
		heading := entry.CreatedAt.String()
		if heading == "" {
			heading = entry.ID
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", heading))
		buf.WriteString(strings.TrimSpace(entry.Content))
		buf.WriteString("\n\n")

		writeList(&buf, "Practiced", entry.Practiced)
		writeList(&buf, "Difficulties", entry.Difficulties)
		writeList(&buf, "Improvements", entry.Improvements)
		writeList(&buf, "New phrases", entry.NewPhrases)
	}

	return buf.Bytes(), nil
}

// ExportJournalText converts journal entries to plain text
func ExportJournalText(entries []models.JournalEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Journal entries: %d\n\n", len(entries)))
	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, entry.CreatedAt, strings.TrimSpace(entry.Content)))
	}

	return buf.Bytes(), nil
}

func writeList(buf *bytes.Buffer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	buf.WriteString(fmt.Sprintf("**%s**:\n", label))
	for _, item := range items {
		buf.WriteString(fmt.Sprintf("- %s\n", item))
	}
	buf.WriteString("\n")
}

// cell escapes pipes and newlines so a value stays inside one table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseFormat accepts csv, markdown (or md) and text (or txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, s)
}

// WriteExport writes data to path, creating parent directories.
//
// An empty path defaults to {base}{format extension} in the working directory.
func WriteExport(data []byte, path, base string, format Format) (string, error) {
	if path == "" {
		path = base + format.Extension()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
