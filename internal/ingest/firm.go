package ingest

import (
	"github.com/sells-group/contactgraph/internal/fetcher"
	"github.com/sells-group/contactgraph/internal/model"
)

// FirmRecords adapts a firm-contact sheet: one record per row with a single
// contact slot. Firm-level descriptive columns repeat on every row and land
// in the slot's org fields; the conflict resolver arbitrates disagreements
// across rows of the same firm.
func FirmRecords(table *fetcher.Table, sourceID string, tags []string) []*model.SourceRecord {
	firm := table.Column("Firm Name")
	first := table.Column("Contact First Name")
	last := table.Column("Contact Last Name")
	title := table.Column("Contact Title/Position")
	phone := table.Column("Phone Number")
	personalEmail := table.Column("Personal Email Address")
	companyEmail := table.Column("Company Email Address")
	secondaryEmail := table.Column("Secondary Email")
	linkedin := table.Column("LinkedIn Profile")
	category := table.Column("Category")
	website := table.Column("Website")
	address := table.Column("Company Street Address")
	city := table.Column("City")
	state := table.Column("State/ Province")
	zip := table.Column("Postal/Zip Code")
	country := table.Column("Country")
	almaMater := table.Column("Alma Mater")
	investmentPrefs := table.Column("Company's Areas of Investments/Interest")
	yearFounded := table.Column("Year Founded")
	aum := table.Column("AUM")
	about := table.Column("About Company")

	records := make([]*model.SourceRecord, 0, len(table.Rows))
	for ri, row := range table.Rows {
		slot := model.RoleSlot{
			Role:           model.RoleContact,
			EntityName:     fetcher.Cell(row, firm),
			FirstName:      fetcher.Cell(row, first),
			LastName:       fetcher.Cell(row, last),
			Title:          fetcher.Cell(row, title),
			Phone:          fetcher.Cell(row, phone),
			Email:          fetcher.Cell(row, personalEmail),
			SecondaryEmail: fetcher.Cell(row, secondaryEmail),
			CompanyEmail:   fetcher.Cell(row, companyEmail),
			LinkedInURL:    fetcher.Cell(row, linkedin),
			Category:       fetcher.Cell(row, category),
			Website:        fetcher.Cell(row, website),
			Address:        fetcher.Cell(row, address),
			City:           fetcher.Cell(row, city),
			State:          fetcher.Cell(row, state),
			Zip:            fetcher.Cell(row, zip),
			Country:        fetcher.Cell(row, country),
		}
		for key, col := range map[string]int{
			"aum":              aum,
			"year_founded":     yearFounded,
			"investment_prefs": investmentPrefs,
			"about":            about,
		} {
			if v := fetcher.Cell(row, col); v != "" {
				if slot.OrgDetails == nil {
					slot.OrgDetails = make(map[string]string)
				}
				slot.OrgDetails[key] = v
			}
		}

		rec := &model.SourceRecord{
			SourceID: sourceID,
			RowIndex: ri,
			Slots:    []model.RoleSlot{slot},
			Tags:     tags,
			OrgType:  "firm",
		}
		if alma := fetcher.Cell(row, almaMater); alma != "" {
			rec.PersonDetails = map[string]string{"alma_mater": alma}
		}
		records = append(records, rec)
	}
	return records
}
