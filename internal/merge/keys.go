package merge

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contactgraph/internal/model"
	"github.com/sells-group/contactgraph/internal/normalize"
)

// CandidateKeys holds the normalized identity keys extracted from one
// (record, role-slot) pair. An empty field means the source value was missing
// or unusable.
type CandidateKeys struct {
	LinkedIn       string
	Phone          string
	Email          string // personal email — the only email used as a merge key
	SecondaryEmail string
	CompanyEmail   string // organization-level signal, never a person key
	Name           string
	OrgName        string
}

// Empty reports whether the slot carries no usable identity signal at all.
func (k CandidateKeys) Empty() bool {
	return k.Name == "" && k.Phone == "" && k.Email == "" &&
		k.LinkedIn == "" && k.OrgName == ""
}

// ExtractKeys normalizes one role slot into its candidate key set.
func ExtractKeys(slot model.RoleSlot) CandidateKeys {
	return CandidateKeys{
		LinkedIn:       normalize.LinkedIn(slot.LinkedInURL),
		Phone:          normalize.Phone(slot.Phone),
		Email:          normalize.Email(slot.Email),
		SecondaryEmail: normalize.Email(slot.SecondaryEmail),
		CompanyEmail:   normalize.Email(slot.CompanyEmail),
		Name:           normalize.PersonName(slot.FirstName, slot.LastName),
		OrgName:        normalize.OrgName(slot.EntityName),
	}
}

// observation is one (record, slot) pair with its extracted keys, positioned
// in the deterministic processing order.
type observation struct {
	rec     *model.SourceRecord
	slot    *model.RoleSlot
	recIdx  int // index into the sorted record slice
	slotIdx int
	keys    CandidateKeys
}

// sortRecords orders records by (source id, row index) so repeated runs over
// the same input process observations identically.
func sortRecords(records []*model.SourceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SourceID != records[j].SourceID {
			return records[i].SourceID < records[j].SourceID
		}
		return records[i].RowIndex < records[j].RowIndex
	})
}

// extractObservations runs key extraction across all slots. Extraction is
// pure per-slot work, so it fans out across workers; results land in a
// pre-sized slice indexed by position, keeping the output order independent
// of goroutine timing.
func extractObservations(ctx context.Context, records []*model.SourceRecord, concurrency int) ([]observation, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	total := 0
	for _, rec := range records {
		total += len(rec.Slots)
	}

	obs := make([]observation, total)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	pos := 0
	for ri, rec := range records {
		for si := range rec.Slots {
			p, ri, si, rec := pos, ri, si, rec
			g.Go(func() error {
				obs[p] = observation{
					rec:     rec,
					slot:    &rec.Slots[si],
					recIdx:  ri,
					slotIdx: si,
					keys:    ExtractKeys(rec.Slots[si]),
				}
				return nil
			})
			pos++
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return obs, nil
}
