package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contactgraph/internal/fetcher"
	"github.com/sells-group/contactgraph/internal/model"
)

func TestPropertyRecords(t *testing.T) {
	table := &fetcher.Table{
		Header: []string{
			"Property Name", "Address", "City", "State", "ZIP", "Phone Number", "PropertyID",
			"Owner", "Owner Contact First Name", "Owner Contact Last Name", "Owner Contact Email", "Owner Contact Phone Number",
			"Manager", "Manager Contact First Name", "Manager Contact Last Name", "Manager Contact Phone Number",
		},
		Rows: [][]string{
			{
				"Sunset Lofts", "1 Sunset Blvd", "Albany", "NY", "12207", "9094832444", "QZ-100",
				"Sarraf Properties LLC", "David", "Sarraf", "david@sarraf.com", "518-512-3693",
				"Greystar", "Pat", "Lee", "8025550001",
			},
		},
	}

	records := PropertyRecords(table, "qozb", []string{"qozb"})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "qozb", rec.SourceID)
	assert.Equal(t, 0, rec.RowIndex)
	assert.Equal(t, "qozb_entity", rec.OrgType)

	require.NotNil(t, rec.Property)
	assert.Equal(t, "Sunset Lofts", rec.Property.Name)
	assert.Equal(t, "9094832444", rec.Property.Phone)
	assert.Equal(t, "QZ-100", rec.Property.Details["property_id"])

	require.Len(t, rec.Slots, 4)
	owner := rec.Slots[0]
	assert.Equal(t, model.RoleOwner, owner.Role)
	assert.Equal(t, "Sarraf Properties LLC", owner.EntityName)
	assert.Equal(t, "David", owner.FirstName)
	assert.Equal(t, "david@sarraf.com", owner.Email)

	manager := rec.Slots[1]
	assert.Equal(t, model.RoleManager, manager.Role)
	assert.Equal(t, "Greystar", manager.EntityName)
	assert.Empty(t, manager.Email, "only the owner block carries an email column")

	// Trustee and special servicer slots exist but are empty for this row.
	assert.Equal(t, model.RoleTrustee, rec.Slots[2].Role)
	assert.Empty(t, rec.Slots[2].EntityName)
}

func TestPropertyRecords_UnnamedTrailingColumn(t *testing.T) {
	// Role blocks without an email column must not pick up a stray value from
	// an unnamed trailing header cell.
	table := &fetcher.Table{
		Header: []string{
			"Property Name", "Address",
			"Manager", "Manager Contact First Name", "Manager Contact Last Name", "Manager Contact Phone Number",
			"",
		},
		Rows: [][]string{
			{"Sunset Lofts", "1 Sunset Blvd", "Greystar", "Pat", "Lee", "8025550001", "stray@junk.com"},
		},
	}

	records := PropertyRecords(table, "qozb", nil)
	require.Len(t, records, 1)

	manager := records[0].Slots[1]
	require.Equal(t, model.RoleManager, manager.Role)
	assert.Equal(t, "Pat", manager.FirstName)
	assert.Empty(t, manager.Email)
}

func TestFirmRecords(t *testing.T) {
	table := &fetcher.Table{
		Header: []string{
			"Firm Name", "Contact First Name", "Contact Last Name", "Contact Title/Position",
			"Phone Number", "Personal Email Address", "Company Email Address", "Secondary Email",
			"LinkedIn Profile", "Category", "AUM", "Alma Mater",
		},
		Rows: [][]string{
			{
				"Chen Family Office", "Amy", "Chen", "CIO",
				"3105550100", "amy@chen.com", "info@chenfo.com", "amy.chen@gmail.com",
				"https://linkedin.com/in/amy-chen", "Single Family Office", "$2B", "Stanford",
			},
		},
	}

	records := FirmRecords(table, "family-office", []string{"family_office"})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "firm", rec.OrgType)
	assert.Equal(t, []string{"family_office"}, rec.Tags)
	assert.Equal(t, "Stanford", rec.PersonDetails["alma_mater"])
	assert.Nil(t, rec.Property)

	require.Len(t, rec.Slots, 1)
	slot := rec.Slots[0]
	assert.Equal(t, model.RoleContact, slot.Role)
	assert.Equal(t, "Chen Family Office", slot.EntityName)
	assert.Equal(t, "CIO", slot.Title)
	assert.Equal(t, "amy@chen.com", slot.Email)
	assert.Equal(t, "amy.chen@gmail.com", slot.SecondaryEmail)
	assert.Equal(t, "info@chenfo.com", slot.CompanyEmail)
	assert.Equal(t, "$2B", slot.OrgDetails["aum"])
}

func TestContactRecords(t *testing.T) {
	table := &fetcher.Table{
		Header: []string{
			"email", "name", "company", "role", "phone_number", "source", "location",
			"contact_types", "lead_status", "globally_bounced", "globally_unsubscribed",
			"suppression_reason", "suppression_date",
		},
		Rows: [][]string{
			{
				"max@gray.com", "Max Gray", "Gray Holdings", "Principal", "2125550001", "apollo", "NYC",
				"investor;operator", "warm", "false", "true",
				"user_request", "2025-11-02",
			},
			{"solo@x.com", "Solo", "", "", "", "", "", "", "", "", "", "", ""},
		},
	}

	records := ContactRecords(table, "outreach", []string{"outreach"})
	require.Len(t, records, 2)

	rec := records[0]
	slot := rec.Slots[0]
	assert.Equal(t, "Max", slot.FirstName)
	assert.Equal(t, "Gray", slot.LastName)
	assert.Equal(t, "Gray Holdings", slot.EntityName)
	assert.Equal(t, "warm", rec.LeadStatus)
	assert.False(t, rec.EmailBounced)
	assert.True(t, rec.EmailUnsubscribed)
	assert.Equal(t, "user_request", rec.SuppressionReason)
	assert.Equal(t, []string{"outreach", "investor", "operator"}, rec.Tags)
	assert.Equal(t, "NYC", rec.PersonDetails["location"])
	assert.Equal(t, "apollo", rec.PersonDetails["import_source"])

	// Single-token names become the first name.
	assert.Equal(t, "Solo", records[1].Slots[0].FirstName)
	assert.Empty(t, records[1].Slots[0].LastName)
}

func TestLoad_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	csv := "email,name,company\namy@chen.com,Amy Chen,Chen Family Office\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	records, err := Load(context.Background(), Source{ID: "outreach", Path: path, Shape: ShapeContacts})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Amy", records[0].Slots[0].FirstName)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), Source{Path: "x.csv", Shape: ShapeContacts})
	assert.Error(t, err, "missing source id")

	path := filepath.Join(t.TempDir(), "c.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))
	_, err = Load(context.Background(), Source{ID: "s", Path: path, Shape: "unknown"})
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"David Sarraf", "David", "Sarraf"},
		{"Mary Jo Kline", "Mary Jo", "Kline"},
		{"Solo", "Solo", ""},
		{"  ", "", ""},
	}
	for _, c := range cases {
		first, last := splitName(c.in)
		assert.Equal(t, c.first, first, c.in)
		assert.Equal(t, c.last, last, c.in)
	}
}
