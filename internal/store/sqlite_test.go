package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contactgraph/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "contactgraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func fullTestRun() *Run {
	return &Run{
		ID:        "run-1",
		StartedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Graph: model.EntityGraph{
			People: []model.Person{
				{ID: 0, FirstName: "David", LastName: "Sarraf", LeadStatus: "warm", Tags: []string{"qozb"}},
				{ID: 1, FirstName: "Amy", LastName: "Chen", LeadStatus: "new"},
			},
			Organizations: []model.Organization{
				{ID: 0, Name: "Sarraf Properties LLC", OrgType: "qozb_entity"},
			},
			Phones:     []model.Phone{{ID: 0, Number: "5185123693"}},
			Emails:     []model.Email{{ID: 0, Address: "amy@chen.com", Status: model.EmailActive}},
			LinkedIns:  []model.LinkedInProfile{{ID: 0, URL: "https://linkedin.com/in/amy-chen"}},
			Properties: []model.Property{{ID: 0, Name: "Sunset Lofts", Address: "1 Sunset Blvd"}},
			PersonOrganizations: []model.PersonOrganization{
				{PersonID: 0, OrgID: 0, Role: model.RoleOwner},
			},
			PersonPhones:    []model.PersonPhone{{PersonID: 0, PhoneID: 0}},
			PersonEmails:    []model.PersonEmail{{PersonID: 1, EmailID: 0, Label: model.EmailLabelPersonal}},
			PersonLinkedIns: []model.PersonLinkedIn{{PersonID: 1, LinkedInID: 0}},
			PersonProperties: []model.PersonProperty{
				{PersonID: 0, PropertyID: 0, Role: model.RoleOwner},
			},
			PropertyPhones: []model.PropertyPhone{{PropertyID: 0, PhoneID: 0}},
			PropertyOrganizations: []model.PropertyOrganization{
				{PropertyID: 0, OrgID: 0, Role: model.RoleOwner},
			},
		},
		Report: model.MergeReport{
			People: model.EntityCounts{Created: 2, Merged: 1},
			Findings: []model.Finding{
				{Kind: model.FindingSharedPhone, Key: "5185123693", Count: 2, Values: []string{"a b", "c d"}},
			},
		},
	}
}

func TestSQLiteSaveRunRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, fullTestRun()))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 2, runs[0].People)
	assert.Equal(t, 1, runs[0].Organizations)
	assert.Equal(t, 1, runs[0].Findings)

	var first, last string
	row := s.db.QueryRow(`SELECT first_name, last_name FROM people WHERE run_id = 'run-1' AND seq = 0`)
	require.NoError(t, row.Scan(&first, &last))
	assert.Equal(t, "David", first)
	assert.Equal(t, "Sarraf", last)
}

func TestSQLiteSaveRun_Idempotent(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, fullTestRun()))
	require.NoError(t, s.SaveRun(ctx, fullTestRun()))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].People, "re-saving the same run must not duplicate rows")

	var phones int
	row := s.db.QueryRow(`SELECT count(*) FROM person_phones WHERE run_id = 'run-1'`)
	require.NoError(t, row.Scan(&phones))
	assert.Equal(t, 1, phones)
}

func TestSQLiteSaveRun_RequiresID(t *testing.T) {
	s := newTestSQLite(t)
	assert.Error(t, s.SaveRun(context.Background(), &Run{}))
}

func TestSQLiteUpsertSQL(t *testing.T) {
	run := fullTestRun()
	tables, err := graphTables(run)
	require.NoError(t, err)

	sql := sqliteUpsertSQL(tables[0].cfg)
	assert.Contains(t, sql, `INSERT INTO "people"`)
	assert.Contains(t, sql, `ON CONFLICT ("run_id", "seq") DO UPDATE SET`)

	// Pure-key junction tables fall back to DO NOTHING.
	for _, tr := range tables {
		if tr.cfg.Table == "person_phones" {
			assert.Contains(t, sqliteUpsertSQL(tr.cfg), "DO NOTHING")
		}
	}
}
