package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contactgraph/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; tests pass pgxmock here.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS merge_runs (
	id         TEXT PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	report     JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
	run_id      TEXT NOT NULL REFERENCES merge_runs(id),
	seq         INTEGER NOT NULL,
	id          TEXT NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	lead_status TEXT NOT NULL DEFAULT 'new',
	tags        JSONB,
	details     JSONB,
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
	company_email_conflicted BOOLEAN NOT NULL DEFAULT false,
	address                  TEXT NOT NULL DEFAULT '',
	city                     TEXT NOT NULL DEFAULT '',
	state                    TEXT NOT NULL DEFAULT '',
	zip                      TEXT NOT NULL DEFAULT '',
	country                  TEXT NOT NULL DEFAULT '',
	website                  TEXT NOT NULL DEFAULT '',
	details                  JSONB,
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
	metadata JSONB,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS linkedin_profiles (
	run_id       TEXT NOT NULL REFERENCES merge_runs(id),
	seq          INTEGER NOT NULL,
	id           TEXT NOT NULL,
	url          TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT '',
	generic      BOOLEAN NOT NULL DEFAULT false,
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
	details JSONB,
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
	run_id TEXT NOT NULL REFERENCES merge_runs(id),
	kind     TEXT NOT NULL,
	key      TEXT NOT NULL,
	count    INTEGER NOT NULL,
	"values" JSONB,
	PRIMARY KEY (run_id, kind, key)
);

CREATE INDEX IF NOT EXISTS idx_phones_number ON phones(number);
CREATE INDEX IF NOT EXISTS idx_emails_address ON emails(address);
CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations(name);
CREATE INDEX IF NOT EXISTS idx_findings_kind ON findings(kind);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveRun writes the run header and every graph table in one transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return eris.New("postgres: run id is required")
	}

	tables, err := graphTables(run)
	if err != nil {
		return err
	}
	report, err := jsonText(run.Report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO merge_runs (id, started_at, report) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET started_at = EXCLUDED.started_at, report = EXCLUDED.report`,
		run.ID, run.StartedAt, report,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert merge run")
	}

	total := int64(0)
	for _, t := range tables {
		n, err := db.BulkUpsertTx(ctx, tx, t.cfg, t.rows)
		if err != nil {
			return err
		}
		total += n
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit tx")
	}

	zap.L().Info("run saved",
		zap.String("run_id", run.ID),
		zap.Int64("rows", total),
		zap.Int("people", len(run.Graph.People)),
		zap.Int("organizations", len(run.Graph.Organizations)),
	)
	return nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.started_at,
			(SELECT count(*) FROM people p WHERE p.run_id = r.id),
			(SELECT count(*) FROM organizations o WHERE o.run_id = r.id),
			(SELECT count(*) FROM findings f WHERE f.run_id = r.id)
		FROM merge_runs r
		ORDER BY r.started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.ID, &rs.StartedAt, &rs.People, &rs.Organizations, &rs.Findings); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run summary")
		}
		out = append(out, rs)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
