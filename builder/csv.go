package builder

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/poiesic/docfeed/core"
)

// CSVBuilder converts a CSV payload into records. The first row is the
// header; every later row becomes one record keyed by the sanitized
// header names. CSV carries no type information, so every cell is stored
// as a string value.
type CSVBuilder struct{}

// NewCSVBuilder returns a CSVBuilder.
func NewCSVBuilder() *CSVBuilder { return &CSVBuilder{} }

// Build parses payload and returns one record per data row. Empty cells
// are omitted from their record, and rows with zero cells are skipped.
// An empty payload yields zero records and no error.
func (b *CSVBuilder) Build(payload string) ([]core.Record, error) {
	reader := csv.NewReader(strings.NewReader(payload))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if len(rows) == 0 {
		return []core.Record{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = core.NormalizeFieldName(cell)
	}

	records := make([]core.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := core.Record{}
		width := len(header)
		if len(row) < width {
			width = len(row)
		}
		for i := 0; i < width; i++ {
			if row[i] == "" {
				continue
			}
			rec[header[i]] = core.String(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}
