package ingest

import (
	"github.com/sells-group/contactgraph/internal/fetcher"
	"github.com/sells-group/contactgraph/internal/model"
)

// ContactRecords adapts an outreach contacts export: one row per contact,
// email-keyed, carrying deliverability flags, suppression metadata, lead
// status, and contact-type tags that union with the source tags.
func ContactRecords(table *fetcher.Table, sourceID string, tags []string) []*model.SourceRecord {
	email := table.Column("email")
	name := table.Column("name")
	company := table.Column("company")
	role := table.Column("role")
	phone := table.Column("phone_number")
	source := table.Column("source")
	location := table.Column("location")
	contactTypes := table.Column("contact_types")
	leadStatus := table.Column("lead_status")
	bounced := table.Column("globally_bounced")
	unsubscribed := table.Column("globally_unsubscribed")
	suppReason := table.Column("suppression_reason")
	suppDate := table.Column("suppression_date")

	records := make([]*model.SourceRecord, 0, len(table.Rows))
	for ri, row := range table.Rows {
		firstName, lastName := splitName(fetcher.Cell(row, name))
		slot := model.RoleSlot{
			Role:       model.RoleContact,
			EntityName: fetcher.Cell(row, company),
			FirstName:  firstName,
			LastName:   lastName,
			Title:      fetcher.Cell(row, role),
			Phone:      fetcher.Cell(row, phone),
			Email:      fetcher.Cell(row, email),
		}

		rec := &model.SourceRecord{
			SourceID:          sourceID,
			RowIndex:          ri,
			Slots:             []model.RoleSlot{slot},
			LeadStatus:        fetcher.Cell(row, leadStatus),
			EmailBounced:      parseBool(fetcher.Cell(row, bounced)),
			EmailUnsubscribed: parseBool(fetcher.Cell(row, unsubscribed)),
			SuppressionReason: fetcher.Cell(row, suppReason),
			SuppressionDate:   fetcher.Cell(row, suppDate),
		}

		rec.Tags = append(rec.Tags, tags...)
		rec.Tags = append(rec.Tags, splitList(fetcher.Cell(row, contactTypes))...)

		details := make(map[string]string)
		if v := fetcher.Cell(row, location); v != "" {
			details["location"] = v
		}
		if v := fetcher.Cell(row, source); v != "" {
			details["import_source"] = v
		}
		if len(details) > 0 {
			rec.PersonDetails = details
		}

		records = append(records, rec)
	}
	return records
}
