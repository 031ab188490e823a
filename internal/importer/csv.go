// Package importer converts between CSV text and deck cards: bulk import
// for deck creation and export for the deck editor's download path.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/kuizlet/internal/domain"
)

// ErrNoValidRows indicates the input produced no importable cards; the
// caller must leave the deck unmodified.
var ErrNoValidRows = errors.New("no valid rows in CSV input")

// ImportCards parses CSV text into new cards (status "new").
//
// Header handling: when the first row names both a "term" column and a
// "definition" (or "meaning") column, case-insensitively, fields map by
// column name and the header row is consumed. Any other first row is data
// and every row is read positionally as (term, definition). Rows where
// both fields come out empty are dropped.
func ImportCards(r io.Reader) ([]domain.Card, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}

	termCol, defCol := 0, 1
	if t, d, ok := headerColumns(rows[0]); ok {
		termCol, defCol = t, d
		rows = rows[1:]
	}

	var cards []domain.Card
	for _, row := range rows {
		term := strings.TrimSpace(field(row, termCol))
		definition := strings.TrimSpace(field(row, defCol))
		if term == "" && definition == "" {
			continue
		}
		cards = append(cards, domain.NewCard(term, definition))
	}
	if len(cards) == 0 {
		return nil, ErrNoValidRows
	}
	return cards, nil
}

// ExportCards renders the deck's cards as CSV with a Term,Definition
// header, one row per card.
func ExportCards(w io.Writer, cards []domain.Card) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Term", "Definition"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, card := range cards {
		if err := writer.Write([]string{card.Term, card.Definition}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// headerColumns reports the term and definition column indexes when the row
// is a recognizable header.
func headerColumns(row []string) (termCol, defCol int, ok bool) {
	termCol, defCol = -1, -1
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "term":
			if termCol == -1 {
				termCol = i
			}
		case "definition", "meaning":
			if defCol == -1 {
				defCol = i
			}
		}
	}
	if termCol == -1 || defCol == -1 {
		return 0, 0, false
	}
	return termCol, defCol, true
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
