package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	HasHeader  bool // if true, the first row becomes Table.Header
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses CSV from r into a Table. A UTF-8 byte-order mark, common in
// spreadsheet exports, is stripped transparently. Rows may have variable
// field counts.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	reader := newCSVReader(r, opts)

	table := &Table{}
	first := true
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}

		if first && opts.HasHeader {
			first = false
			table.Header = record
			continue
		}
		first = false
		table.Rows = append(table.Rows, record)
	}
}

func newCSVReader(r io.Reader, opts CSVOptions) *csv.Reader {
	// Strip a leading BOM if present; plain UTF-8 passes through unchanged.
	bomAware := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	reader := csv.NewReader(bomAware)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields
	return reader
}
