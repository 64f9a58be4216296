package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "name,phone\nDavid Sarraf,518-512-3693\nJane Doe,9094832444\n"
	table, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "phone"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"David Sarraf", "518-512-3693"}, table.Rows[0])
}

func TestReadCSV_StripsBOM(t *testing.T) {
	in := "\uFEFFname,phone\nDavid Sarraf,518-512-3693\n"
	table, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{HasHeader: true})
	require.NoError(t, err)

	assert.Equal(t, "name", table.Header[0], "BOM must not leak into the first header cell")
	assert.Equal(t, 0, table.Column("name"))
}

func TestReadCSV_TrimSpaceAndVariableFields(t *testing.T) {
	in := "name , phone \n David Sarraf , 518-512-3693 , extra\nshort\n"
	table, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{HasHeader: true, TrimSpace: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "phone"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "David Sarraf", table.Rows[0][0])
	assert.Len(t, table.Rows[1], 1)
}

func TestTable_Column(t *testing.T) {
	table := &Table{Header: []string{"Owner Name", "Owner Phone"}}
	assert.Equal(t, 1, table.Column("owner phone"))
	assert.Equal(t, -1, table.Column("missing"))
}

func TestTable_Column_EmptyNameNeverMatches(t *testing.T) {
	// Exports commonly end in an unnamed column; an empty lookup must not
	// bind to it.
	table := &Table{Header: []string{"Owner Name", ""}}
	assert.Equal(t, -1, table.Column(""))
	assert.Equal(t, -1, table.Column("  "))
}

func TestCell_OutOfRange(t *testing.T) {
	row := []string{"a"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Empty(t, Cell(row, 1))
	assert.Empty(t, Cell(row, -1))
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadCSV(ctx, strings.NewReader("a,b\n"), CSVOptions{})
	assert.Error(t, err)
}
