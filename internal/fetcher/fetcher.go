// Package fetcher reads tabular source exports. Sources arrive as CSV or
// XLSX files; both parse to string rows so ingest adapters stay
// format-agnostic.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is one fully-read sheet: the header row plus every data row.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable opens path and parses it by extension. CSV files are read with a
// header row and BOM tolerance; XLSX files read the first sheet.
func ReadTable(ctx context.Context, path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close()
		return ReadCSV(ctx, f, CSVOptions{HasHeader: true, TrimSpace: true})
	case ".xlsx":
		return ReadXLSXTable(ctx, path, XLSXOptions{})
	default:
		return nil, eris.Errorf("fetcher: unsupported source format %q", filepath.Ext(path))
	}
}

// Column returns the index of the named header column, case-insensitive, or
// -1 when absent. The empty name never matches: exports often carry unnamed
// trailing columns, and an empty lookup must not bind to them.
func (t *Table) Column(name string) int {
	if strings.TrimSpace(name) == "" {
		return -1
	}
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns row[col] or "" when the row is short or the column missing.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
