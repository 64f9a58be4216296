package ingest

import (
	"github.com/sells-group/contactgraph/internal/fetcher"
	"github.com/sells-group/contactgraph/internal/model"
)

// roleColumns maps one role block of a property sheet to its column headers.
// Only the owner block carries an email column.
type roleColumns struct {
	role    model.Role
	entity  string
	first   string
	last    string
	email   string
	phone   string
	address string
	city    string
	state   string
	zip     string
	country string
	website string
}

var propertyRoleColumns = []roleColumns{
	{
		role:    model.RoleOwner,
		entity:  "Owner",
		first:   "Owner Contact First Name",
		last:    "Owner Contact Last Name",
		email:   "Owner Contact Email",
		phone:   "Owner Contact Phone Number",
		address: "Owner Address",
		city:    "Owner City",
		state:   "Owner State",
		zip:     "Owner ZIP",
		country: "Owner Country",
		website: "Owner Website",
	},
	{
		role:    model.RoleManager,
		entity:  "Manager",
		first:   "Manager Contact First Name",
		last:    "Manager Contact Last Name",
		phone:   "Manager Contact Phone Number",
		address: "Manager Address",
		city:    "Manager City",
		state:   "Manager State",
		zip:     "Manager ZIP",
		country: "Manager Country",
		website: "Manager Website",
	},
	{
		role:    model.RoleTrustee,
		entity:  "Trustee",
		first:   "Trustee Contact First Name",
		last:    "Trustee Contact Last Name",
		phone:   "Trustee Contact Phone Number",
		address: "Trustee Address",
		city:    "Trustee City",
		state:   "Trustee State",
		zip:     "Trustee ZIP",
		country: "Trustee Country",
		website: "Trustee Website",
	},
	{
		role:    model.RoleSpecialServicer,
		entity:  "Special Servicer",
		first:   "Special Servicer Contact First Name",
		last:    "Special Servicer Contact Last Name",
		phone:   "Special Servicer Contact Phone Number",
		address: "Special Servicer Address",
		city:    "Special Servicer City",
		state:   "Special Servicer State",
		zip:     "Special Servicer ZIP",
		country: "Special Servicer Country",
		website: "Special Servicer Website",
	},
}

// PropertyRecords adapts a property-role sheet: one record per row carrying
// the property block plus up to four role slots. Slots are emitted even when
// sparse; the engine decides what is usable.
func PropertyRecords(table *fetcher.Table, sourceID string, tags []string) []*model.SourceRecord {
	col := func(name string) int { return table.Column(name) }

	propName := col("Property Name")
	propAddr := col("Address")
	propCity := col("City")
	propState := col("State")
	propZip := col("ZIP")
	propPhone := col("Phone Number")

	// Descriptive columns carried through as-is in the details bag.
	detailCols := []struct {
		key string
		idx int
	}{
		{"property_id", col("PropertyID")},
		{"market", col("Market")},
		{"submarket", col("Submarket")},
		{"county", col("County")},
		{"units", col("Units")},
		{"sqft", col("SqFt")},
		{"completion_date", col("Completion Date")},
		{"impr_rating", col("Impr. Rating")},
		{"loc_rating", col("Loc. Rating")},
		{"special_status", col("Property Special Status")},
		{"latitude", col("Latitude")},
		{"longitude", col("Longitude")},
	}

	type roleIdx struct {
		block roleColumns
		cols  map[string]int
	}
	roleIdxs := make([]roleIdx, 0, len(propertyRoleColumns))
	for _, rc := range propertyRoleColumns {
		roleIdxs = append(roleIdxs, roleIdx{block: rc, cols: map[string]int{
			"entity": col(rc.entity), "first": col(rc.first), "last": col(rc.last),
			"email": col(rc.email), "phone": col(rc.phone),
			"address": col(rc.address), "city": col(rc.city), "state": col(rc.state),
			"zip": col(rc.zip), "country": col(rc.country), "website": col(rc.website),
		}})
	}

	records := make([]*model.SourceRecord, 0, len(table.Rows))
	for ri, row := range table.Rows {
		rec := &model.SourceRecord{
			SourceID: sourceID,
			RowIndex: ri,
			Tags:     tags,
			OrgType:  "qozb_entity",
		}

		prop := &model.PropertyInfo{
			Name:    fetcher.Cell(row, propName),
			Address: fetcher.Cell(row, propAddr),
			City:    fetcher.Cell(row, propCity),
			State:   fetcher.Cell(row, propState),
			Zip:     fetcher.Cell(row, propZip),
			Phone:   fetcher.Cell(row, propPhone),
		}
		for _, dc := range detailCols {
			if v := fetcher.Cell(row, dc.idx); v != "" {
				if prop.Details == nil {
					prop.Details = make(map[string]string)
				}
				prop.Details[dc.key] = v
			}
		}
		if prop.Name != "" || prop.Address != "" {
			rec.Property = prop
		}

		for _, rb := range roleIdxs {
			slot := model.RoleSlot{
				Role:       rb.block.role,
				EntityName: fetcher.Cell(row, rb.cols["entity"]),
				FirstName:  fetcher.Cell(row, rb.cols["first"]),
				LastName:   fetcher.Cell(row, rb.cols["last"]),
				Email:      fetcher.Cell(row, rb.cols["email"]),
				Phone:      fetcher.Cell(row, rb.cols["phone"]),
				Address:    fetcher.Cell(row, rb.cols["address"]),
				City:       fetcher.Cell(row, rb.cols["city"]),
				State:      fetcher.Cell(row, rb.cols["state"]),
				Zip:        fetcher.Cell(row, rb.cols["zip"]),
				Country:    fetcher.Cell(row, rb.cols["country"]),
				Website:    fetcher.Cell(row, rb.cols["website"]),
			}
			rec.Slots = append(rec.Slots, slot)
		}

		records = append(records, rec)
	}
	return records
}
