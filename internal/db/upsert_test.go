package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsertTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := UpsertConfig{
		Table:        "phones",
		Columns:      []string{"run_id", "seq", "number"},
		ConflictKeys: []string{"run_id", "seq"},
	}
	rows := [][]any{
		{"run-1", 0, "5185123693"},
		{"run-1", 1, "9094832444"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_phones"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_phones"}, cfg.Columns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "phones"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	n, err := BulkUpsertTx(context.Background(), tx, cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertTx_EmptyRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	n, err := BulkUpsertTx(context.Background(), tx, UpsertConfig{Table: "phones"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkUpsertTx_Validation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	_, err = BulkUpsertTx(context.Background(), tx, UpsertConfig{Table: "t"}, [][]any{{1}})
	assert.Error(t, err, "missing columns")

	_, err = BulkUpsertTx(context.Background(), tx, UpsertConfig{Table: "t", Columns: []string{"a"}}, [][]any{{1}})
	assert.Error(t, err, "missing conflict keys")
}

func TestSanitizeTable(t *testing.T) {
	assert.Equal(t, `"people"`, sanitizeTable("people"))
	assert.Equal(t, `"contacts"."people"`, sanitizeTable("contacts.people"))
}
