// Package merge implements the entity-resolution core: key extraction,
// precedence-ordered union merging, conflict resolution, relationship
// building, and the collision audit.
package merge

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contactgraph/internal/model"
	"github.com/sells-group/contactgraph/internal/normalize"
)

// Options tunes one engine run.
type Options struct {
	// SharedChannelThreshold is the number of distinct people a channel may
	// link before the auditor flags it. Default 1 (warn on any sharing).
	SharedChannelThreshold int
	// ExtractConcurrency caps the key-extraction worker count.
	// 0 means GOMAXPROCS.
	ExtractConcurrency int
}

// Engine turns batches of source records into a canonical entity graph.
// The engine holds no state between runs; all run state lives on the stack
// of Run so the partition is never shared across runs.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	if opts.SharedChannelThreshold <= 0 {
		opts.SharedChannelThreshold = 1
	}
	return &Engine{opts: opts}
}

// Result is the complete output of one run: the frozen entity graph and the
// report downstream persistence and summaries are built from.
type Result struct {
	Graph  model.EntityGraph
	Report model.MergeReport
}

// pairKey is the phone+name fallback identity key.
type pairKey struct {
	phone string
	name  string
}

// Run executes the full batch: normalize, extract, merge, resolve, build,
// audit. It either returns a complete result or, on an internal invariant
// violation, an error and no output.
func (e *Engine) Run(ctx context.Context, records []*model.SourceRecord) (*Result, error) {
	report := model.MergeReport{}

	// Structural validation: records without provenance are excluded from the
	// run but never abort it.
	valid := make([]*model.SourceRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil || !rec.Valid() {
			report.SkippedRecords++
			continue
		}
		valid = append(valid, rec)
	}
	sortRecords(valid)
	report.Sources = summarizeSources(valid)

	obs, err := extractObservations(ctx, valid, e.opts.ExtractConcurrency)
	if err != nil {
		return nil, eris.Wrap(err, "merge: extract keys")
	}

	for i := range obs {
		if obs[i].keys.Empty() {
			report.EmptySlots++
		} else if obs[i].keys.Name == "" {
			report.NamelessSlots++
		}
	}

	generic := flagGenericLinkedIns(obs)

	part, err := e.unionPeople(obs, generic)
	if err != nil {
		return nil, err
	}
	part.freeze()

	b := newGraphBuilder(valid, obs, part, generic)
	graph, err := b.build(ctx)
	if err != nil {
		return nil, err
	}

	if err := verifyInvariants(graph, obs, b.personOf); err != nil {
		return nil, err
	}

	fillCounts(&report, valid, obs, graph)
	report.Findings = audit(graph, generic, e.opts.SharedChannelThreshold)
	for _, o := range graph.Organizations {
		if o.CompanyEmailConflicted {
			report.ConflictedCompanyEmails++
		}
	}

	zap.L().Info("merge run complete",
		zap.Int("records", len(valid)),
		zap.Int("skipped_records", report.SkippedRecords),
		zap.Int("people", len(graph.People)),
		zap.Int("organizations", len(graph.Organizations)),
		zap.Int("phones", len(graph.Phones)),
		zap.Int("findings", len(report.Findings)),
	)

	return &Result{Graph: graph, Report: report}, nil
}

// flagGenericLinkedIns pre-scans for organizational/shared profile URLs: a
// URL observed with two or more distinct identities is not evidence of a
// single person and is excluded as a merge key. Identities are distinct
// names, plus distinct non-empty phones within one name; an observation
// missing its phone folds into its name's identity rather than forming a new
// one. The slots stay distinct and the collision is reported instead.
func flagGenericLinkedIns(obs []observation) map[string][]string {
	phonesByName := make(map[string]map[string]map[string]struct{})
	names := make(map[string][]string)
	for _, o := range obs {
		li := o.keys.LinkedIn
		if li == "" || o.keys.Name == "" {
			continue
		}
		if phonesByName[li] == nil {
			phonesByName[li] = make(map[string]map[string]struct{})
		}
		if phonesByName[li][o.keys.Name] == nil {
			phonesByName[li][o.keys.Name] = make(map[string]struct{})
		}
		if o.keys.Phone != "" {
			phonesByName[li][o.keys.Name][o.keys.Phone] = struct{}{}
		}
		names[li] = appendUnique(names[li], o.keys.Name)
	}

	generic := make(map[string][]string)
	for li, byName := range phonesByName {
		identities := 0
		for _, phones := range byName {
			if len(phones) > 1 {
				identities += len(phones)
			} else {
				identities++
			}
		}
		if identities >= 2 {
			generic[li] = names[li]
			zap.L().Debug("linkedin url excluded as merge key",
				zap.String("url", li),
				zap.Int("identity_pairs", identities),
			)
		}
	}
	return generic
}

// unionPeople applies the person matching rules over all observations in
// deterministic order. Rules in precedence order: shared LinkedIn URL (unless
// generic), identical phone+name, identical personal email. A named slot with
// no matching key becomes its own singleton group. Nameless slots never join
// a person group.
func (e *Engine) unionPeople(obs []observation, generic map[string][]string) (*partition, error) {
	part := newPartition(len(obs))

	linkedinRep := make(map[string]int32)
	emailRep := make(map[string]int32)
	pairRep := make(map[pairKey]int32)

	for i := range obs {
		k := obs[i].keys
		if k.Name == "" {
			continue
		}
		idx := int32(i)

		if k.LinkedIn != "" {
			if _, isGeneric := generic[k.LinkedIn]; !isGeneric {
				if rep, ok := linkedinRep[k.LinkedIn]; ok {
					if _, err := part.union(idx, rep); err != nil {
						return nil, err
					}
				} else {
					linkedinRep[k.LinkedIn] = idx
				}
			}
		}

		if k.Phone != "" {
			pk := pairKey{phone: k.Phone, name: k.Name}
			if rep, ok := pairRep[pk]; ok {
				if _, err := part.union(idx, rep); err != nil {
					return nil, err
				}
			} else {
				pairRep[pk] = idx
			}
		}

		// Personal email only. Company email is an organization-level signal
		// and never merges people.
		if k.Email != "" {
			if rep, ok := emailRep[k.Email]; ok {
				if _, err := part.union(idx, rep); err != nil {
					return nil, err
				}
			} else {
				emailRep[k.Email] = idx
			}
		}
	}

	return part, nil
}

// verifyInvariants checks the finished graph for conditions that can only
// arise from an engine bug. Any hit aborts the run with no output.
func verifyInvariants(g model.EntityGraph, obs []observation, personOf map[int32]model.PersonID) error {
	// Phone-identity: the same observed (phone, name) key on two distinct
	// people is impossible — that key unions its observations into one group.
	// Resolved display names are not checked: attribute arbitration may pick
	// the same spelling for genuinely distinct people.
	owner := make(map[pairKey]model.PersonID)
	for i := range obs {
		k := obs[i].keys
		if k.Phone == "" || k.Name == "" {
			continue
		}
		pid, ok := personOf[int32(i)]
		if !ok {
			continue
		}
		key := pairKey{phone: k.Phone, name: k.Name}
		if other, seen := owner[key]; seen && other != pid {
			return eris.Wrapf(ErrPartitionInvariant,
				"phone %s observed with name %q on two people", k.Phone, k.Name)
		}
		owner[key] = pid
	}

	// Organization exactness: one canonical org per normalized name, and
	// every org has a non-empty name.
	orgNames := make(map[string]model.OrgID, len(g.Organizations))
	for _, o := range g.Organizations {
		n := normalize.OrgName(o.Name)
		if n == "" {
			return eris.Wrapf(ErrPartitionInvariant, "organization %d has placeholder name %q", o.ID, o.Name)
		}
		if other, ok := orgNames[n]; ok && other != o.ID {
			return eris.Wrapf(ErrPartitionInvariant, "duplicate organization for normalized name %q", n)
		}
		orgNames[n] = o.ID
	}

	return nil
}

func summarizeSources(records []*model.SourceRecord) []model.SourceSummary {
	index := make(map[string]int)
	var out []model.SourceSummary
	for _, rec := range records {
		i, ok := index[rec.SourceID]
		if !ok {
			i = len(out)
			index[rec.SourceID] = i
			out = append(out, model.SourceSummary{SourceID: rec.SourceID})
		}
		out[i].Records++
		out[i].Slots += len(rec.Slots)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out
}

// fillCounts derives created/merged tallies: merged is the number of
// observations folded into an entity created by an earlier observation.
func fillCounts(report *model.MergeReport, records []*model.SourceRecord, obs []observation, g model.EntityGraph) {
	var personObs, orgObs, phoneObs, emailObs, linkedinObs int
	for _, o := range obs {
		if o.keys.Name != "" {
			personObs++
		}
		if o.keys.OrgName != "" {
			orgObs++
		}
		if o.keys.Phone != "" {
			phoneObs++
		}
		if o.keys.Email != "" {
			emailObs++
		}
		if o.keys.SecondaryEmail != "" {
			emailObs++
		}
		if o.keys.LinkedIn != "" {
			linkedinObs++
		}
	}

	propertyObs := 0
	propertyPhoneObs := 0
	for _, rec := range records {
		if rec.Property != nil {
			propertyObs++
			if normalize.Phone(rec.Property.Phone) != "" {
				propertyPhoneObs++
			}
		}
	}

	report.People = model.EntityCounts{Created: len(g.People), Merged: personObs - len(g.People)}
	report.Organizations = model.EntityCounts{Created: len(g.Organizations), Merged: orgObs - len(g.Organizations)}
	report.Phones = model.EntityCounts{Created: len(g.Phones), Merged: phoneObs + propertyPhoneObs - len(g.Phones)}
	report.Emails = model.EntityCounts{Created: len(g.Emails), Merged: emailObs - len(g.Emails)}
	report.LinkedIns = model.EntityCounts{Created: len(g.LinkedIns), Merged: linkedinObs - len(g.LinkedIns)}
	report.Properties = model.EntityCounts{Created: len(g.Properties), Merged: propertyObs - len(g.Properties)}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
