package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/shared"
)

// ParseFlashcardsCSV reads cards from CSV with a header row.
//
// Front and Back columns are required; Language, Category and Tags are optional and matched
// case-insensitively, so files written by [ExportFlashcardsCSV] read back. Other columns are
// ignored. Rows without a language get defaultLanguage.
func ParseFlashcardsCSV(r io.Reader, defaultLanguage string) ([]models.FlashcardCreate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"front", "back"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: CSV has no %q column", shared.ErrInvalidInput, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	cards := []models.FlashcardCreate{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		card := models.FlashcardCreate{
			Language: field(record, "language"),
			Front:    field(record, "front"),
			Back:     field(record, "back"),
			Category: field(record, "category"),
		}
		if tags := field(record, "tags"); tags != "" {
			card.Tags = strings.Fields(tags)
		}
		if card.Front == "" && card.Back == "" {
			continue
		}
		if card.Front == "" || card.Back == "" {
			return nil, fmt.Errorf("%w: line %d needs both front and back", shared.ErrInvalidInput, line)
		}
		if card.Language == "" {
			card.Language = defaultLanguage
		}
		cards = append(cards, card)
	}

	return cards, nil
}
