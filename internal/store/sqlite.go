package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contactgraph/internal/db"
)

// SQLiteStore implements Store using modernc.org/sqlite. Suited to local and
// dry-adjacent runs where no shared Postgres is available.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sqldb.Exec(pragma); err != nil {
			sqldb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqldb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS merge_runs (
	id         TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	report     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
	run_id      TEXT NOT NULL REFERENCES merge_runs(id),
	seq         INTEGER NOT NULL,
	id          TEXT NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	lead_status TEXT NOT NULL DEFAULT 'new',
	tags        TEXT,
	details     TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS organizations (
	run_id                   TEXT NOT NULL REFERENCES merge_runs(id),
	seq                      INTEGER NOT NULL,
	id                       TEXT NOT NULL,
	name                     TEXT NOT NULL,
	org_type                 TEXT NOT NULL DEFAULT '',
	category                 TEXT NOT NULL DEFAULT '',
	company_email            TEXT NOT NULL DEFAULT '',
	company_email_conflicted INTEGER NOT NULL DEFAULT 0,
	address                  TEXT NOT NULL DEFAULT '',
	city                     TEXT NOT NULL DEFAULT '',
	state                    TEXT NOT NULL DEFAULT '',
	zip                      TEXT NOT NULL DEFAULT '',
	country                  TEXT NOT NULL DEFAULT '',
	website                  TEXT NOT NULL DEFAULT '',
	details                  TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS phones (
	run_id TEXT NOT NULL REFERENCES merge_runs(id),
	seq    INTEGER NOT NULL,
	id     TEXT NOT NULL,
	number TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS emails (
	run_id   TEXT NOT NULL REFERENCES merge_runs(id),
	seq      INTEGER NOT NULL,
	id       TEXT NOT NULL,
	address  TEXT NOT NULL,
	status   TEXT NOT NULL DEFAULT 'active',
	metadata TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS linkedin_profiles (
	run_id       TEXT NOT NULL REFERENCES merge_runs(id),
	seq          INTEGER NOT NULL,
	id           TEXT NOT NULL,
	url          TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT '',
	generic      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS properties (
	run_id  TEXT NOT NULL REFERENCES merge_runs(id),
	seq     INTEGER NOT NULL,
	id      TEXT NOT NULL,
	name    TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	city    TEXT NOT NULL DEFAULT '',
	state   TEXT NOT NULL DEFAULT '',
	zip     TEXT NOT NULL DEFAULT '',
	details TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS person_organizations (
	run_id     TEXT NOT NULL,
	person_seq INTEGER NOT NULL,
	org_seq    INTEGER NOT NULL,
	role       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, person_seq, org_seq, role)
);

CREATE TABLE IF NOT EXISTS person_phones (
	run_id     TEXT NOT NULL,
	person_seq INTEGER NOT NULL,
	phone_seq  INTEGER NOT NULL,
	PRIMARY KEY (run_id, person_seq, phone_seq)
);

CREATE TABLE IF NOT EXISTS person_emails (
	run_id     TEXT NOT NULL,
	person_seq INTEGER NOT NULL,
	email_seq  INTEGER NOT NULL,
	label      TEXT NOT NULL DEFAULT 'personal',
	PRIMARY KEY (run_id, person_seq, email_seq)
);

CREATE TABLE IF NOT EXISTS person_linkedin (
	run_id       TEXT NOT NULL,
	person_seq   INTEGER NOT NULL,
	linkedin_seq INTEGER NOT NULL,
	PRIMARY KEY (run_id, person_seq, linkedin_seq)
);

CREATE TABLE IF NOT EXISTS person_properties (
	run_id       TEXT NOT NULL,
	person_seq   INTEGER NOT NULL,
	property_seq INTEGER NOT NULL,
	role         TEXT NOT NULL,
	PRIMARY KEY (run_id, person_seq, property_seq, role)
);

CREATE TABLE IF NOT EXISTS property_phones (
	run_id       TEXT NOT NULL,
	property_seq INTEGER NOT NULL,
	phone_seq    INTEGER NOT NULL,
	PRIMARY KEY (run_id, property_seq, phone_seq)
);

CREATE TABLE IF NOT EXISTS property_organizations (
	run_id       TEXT NOT NULL,
	property_seq INTEGER NOT NULL,
	org_seq      INTEGER NOT NULL,
	role         TEXT NOT NULL,
	PRIMARY KEY (run_id, property_seq, org_seq, role)
);

CREATE TABLE IF NOT EXISTS findings (
	run_id   TEXT NOT NULL REFERENCES merge_runs(id),
	kind     TEXT NOT NULL,
	key      TEXT NOT NULL,
	count    INTEGER NOT NULL,
	"values" TEXT,
	PRIMARY KEY (run_id, kind, key)
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun writes the run header and every graph table in one transaction,
// row-at-a-time upserts; SQLite has no COPY path.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return eris.New("sqlite: run id is required")
	}

	tables, err := graphTables(run)
	if err != nil {
		return err
	}
	report, err := jsonText(run.Report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO merge_runs (id, started_at, report) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET started_at = excluded.started_at, report = excluded.report`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), report,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert merge run")
	}

	for _, t := range tables {
		if len(t.rows) == 0 {
			continue
		}
		stmt, err := tx.PrepareContext(ctx, sqliteUpsertSQL(t.cfg))
		if err != nil {
			return eris.Wrapf(err, "sqlite: prepare upsert for %s", t.cfg.Table)
		}
		for _, row := range t.rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				stmt.Close()
				return eris.Wrapf(err, "sqlite: upsert into %s", t.cfg.Table)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit tx")
	}

	zap.L().Info("run saved",
		zap.String("run_id", run.ID),
		zap.Int("people", len(run.Graph.People)),
		zap.Int("organizations", len(run.Graph.Organizations)),
	)
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at,
			(SELECT count(*) FROM people p WHERE p.run_id = r.id),
			(SELECT count(*) FROM organizations o WHERE o.run_id = r.id),
			(SELECT count(*) FROM findings f WHERE f.run_id = r.id)
		FROM merge_runs r
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var started string
		if err := rows.Scan(&rs.ID, &started, &rs.People, &rs.Organizations, &rs.Findings); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run summary")
		}
		rs.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse started_at %q", started)
		}
		out = append(out, rs)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// sqliteUpsertSQL renders an INSERT ... ON CONFLICT statement from the shared
// upsert shape so both stores persist identical tables.
func sqliteUpsertSQL(cfg db.UpsertConfig) string {
	quote := func(cols []string) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = `"` + c + `"`
		}
		return out
	}

	updateCols := cfg.UpdateCols
	if updateCols == nil {
		conflictSet := make(map[string]bool, len(cfg.ConflictKeys))
		for _, k := range cfg.ConflictKeys {
			conflictSet[k] = true
		}
		for _, c := range cfg.Columns {
			if !conflictSet[c] {
				updateCols = append(updateCols, c)
			}
		}
	}

	action := "DO NOTHING"
	if len(updateCols) > 0 {
		sets := make([]string, len(updateCols))
		for i, c := range updateCols {
			sets[i] = fmt.Sprintf(`"%s" = excluded."%s"`, c, c)
		}
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return fmt.Sprintf(
		`INSERT INTO "%s" (%s) VALUES (%s) ON CONFLICT (%s) %s`,
		cfg.Table,
		strings.Join(quote(cfg.Columns), ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cfg.Columns)), ", "),
		strings.Join(quote(cfg.ConflictKeys), ", "),
		action,
	)
}
