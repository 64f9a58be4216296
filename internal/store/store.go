// Package store persists finished merge runs. Two implementations: Postgres
// (pgx) for the shared CRM database and SQLite (modernc) for local runs.
package store

import (
	"context"
	"time"

	"github.com/sells-group/contactgraph/internal/model"
)

// Run is one finished merge run ready for persistence: the entity graph plus
// its report, keyed by a caller-chosen run id.
type Run struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Graph     model.EntityGraph `json:"graph"`
	Report    model.MergeReport `json:"report"`
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	People        int       `json:"people"`
	Organizations int       `json:"organizations"`
	Findings      int       `json:"findings"`
}

// Store defines the persistence interface for merge runs. SaveRun is
// transactional: either the whole graph lands or nothing does. Saving the
// same run id again overwrites that run's rows; a changed input set should
// use a fresh run id.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Migrate(ctx context.Context) error
	Close() error
}
