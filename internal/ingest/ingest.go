// Package ingest turns source exports into SourceRecords. Each source shape
// has its own adapter; all adapters emit raw field values and leave
// normalization to the merge engine.
package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contactgraph/internal/fetcher"
	"github.com/sells-group/contactgraph/internal/model"
)

// Shape names a supported source layout.
type Shape string

const (
	// ShapeProperty is a property-role sheet: one row per property with
	// owner / manager / trustee / special servicer slots.
	ShapeProperty Shape = "property"
	// ShapeFirm is a firm-contact sheet: one row per contact with firm-level
	// attributes repeated on every row.
	ShapeFirm Shape = "firm"
	// ShapeContacts is an outreach contacts export: one row per contact,
	// email-keyed, with deliverability and suppression fields.
	ShapeContacts Shape = "contacts"
)

// Source describes one input file for a merge run.
type Source struct {
	ID    string   `mapstructure:"id" yaml:"id"`
	Path  string   `mapstructure:"path" yaml:"path"`
	Shape Shape    `mapstructure:"shape" yaml:"shape"`
	Tags  []string `mapstructure:"tags" yaml:"tags"`
}

// Load reads and adapts one source file into records.
func Load(ctx context.Context, src Source) ([]*model.SourceRecord, error) {
	if src.ID == "" {
		return nil, eris.New("ingest: source id is required")
	}

	table, err := fetcher.ReadTable(ctx, src.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: source %s", src.ID)
	}

	var records []*model.SourceRecord
	switch src.Shape {
	case ShapeProperty:
		records = PropertyRecords(table, src.ID, src.Tags)
	case ShapeFirm:
		records = FirmRecords(table, src.ID, src.Tags)
	case ShapeContacts:
		records = ContactRecords(table, src.ID, src.Tags)
	default:
		return nil, eris.Errorf("ingest: unknown source shape %q", src.Shape)
	}

	zap.L().Info("source loaded",
		zap.String("source_id", src.ID),
		zap.String("shape", string(src.Shape)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// LoadAll reads every configured source in order.
func LoadAll(ctx context.Context, sources []Source) ([]*model.SourceRecord, error) {
	var all []*model.SourceRecord
	for _, src := range sources {
		records, err := Load(ctx, src)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// splitName divides a full name on the last space. Single tokens become the
// first name.
func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return full, ""
	}
	return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}

// splitList parses a comma- or semicolon-separated cell into trimmed values.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
