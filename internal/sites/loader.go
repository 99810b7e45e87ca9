// Package sites reads the website spreadsheet that drives card generation.
package sites

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ColumnURL         = "url"
	ColumnDescription = "description"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// LoadCSV loads records from a CSV file with at least url and description columns.
func LoadCSV(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	records, err := ReadCSV(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses records from r. Header names are matched case-insensitively;
// extra columns are ignored. Rows shorter than the header yield empty fields,
// which Validate later rejects.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, errors.New("csv has no header")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, name := range []string{ColumnURL, ColumnDescription} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		out = append(out, Record{
			Row:         i,
			URL:         get(row, ColumnURL),
			Description: get(row, ColumnDescription),
		})
	}
	return out, nil
}
