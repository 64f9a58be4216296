package store

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contactgraph/internal/db"
)

// tableRows pairs one target table's upsert shape with its row values. Both
// store implementations persist the same tables from the same row builder so
// their schemas cannot drift apart.
type tableRows struct {
	cfg  db.UpsertConfig
	rows [][]any
}

// graphTables flattens a run into per-table rows. Entity rows get fresh UUID
// ids but are keyed by (run_id, seq): the dense engine id, stable across
// re-saves of the same input.
func graphTables(run *Run) ([]tableRows, error) {
	g := &run.Graph

	people := tableRows{cfg: db.UpsertConfig{
		Table:        "people",
		Columns:      []string{"run_id", "seq", "id", "first_name", "last_name", "lead_status", "tags", "details"},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols:   []string{"first_name", "last_name", "lead_status", "tags", "details"},
	}}
	for _, p := range g.People {
		tags, err := jsonText(p.Tags)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal person tags")
		}
		details, err := jsonText(p.Details)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal person details")
		}
		people.rows = append(people.rows, []any{
			run.ID, int32(p.ID), uuid.NewString(), p.FirstName, p.LastName, p.LeadStatus, tags, details,
		})
	}

	orgs := tableRows{cfg: db.UpsertConfig{
		Table: "organizations",
		Columns: []string{
			"run_id", "seq", "id", "name", "org_type", "category",
			"company_email", "company_email_conflicted",
			"address", "city", "state", "zip", "country", "website", "details",
		},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols: []string{
			"name", "org_type", "category", "company_email", "company_email_conflicted",
			"address", "city", "state", "zip", "country", "website", "details",
		},
	}}
	for _, o := range g.Organizations {
		details, err := jsonText(o.Details)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal org details")
		}
		orgs.rows = append(orgs.rows, []any{
			run.ID, int32(o.ID), uuid.NewString(), o.Name, o.OrgType, o.Category,
			o.CompanyEmail, o.CompanyEmailConflicted,
			o.Address, o.City, o.State, o.Zip, o.Country, o.Website, details,
		})
	}

	phones := tableRows{cfg: db.UpsertConfig{
		Table:        "phones",
		Columns:      []string{"run_id", "seq", "id", "number"},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols:   []string{"number"},
	}}
	for _, p := range g.Phones {
		phones.rows = append(phones.rows, []any{run.ID, int32(p.ID), uuid.NewString(), p.Number})
	}

	emails := tableRows{cfg: db.UpsertConfig{
		Table:        "emails",
		Columns:      []string{"run_id", "seq", "id", "address", "status", "metadata"},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols:   []string{"address", "status", "metadata"},
	}}
	for _, e := range g.Emails {
		metadata, err := jsonText(e.Metadata)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal email metadata")
		}
		emails.rows = append(emails.rows, []any{run.ID, int32(e.ID), uuid.NewString(), e.Address, string(e.Status), metadata})
	}

	linkedins := tableRows{cfg: db.UpsertConfig{
		Table:        "linkedin_profiles",
		Columns:      []string{"run_id", "seq", "id", "url", "profile_name", "generic"},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols:   []string{"url", "profile_name", "generic"},
	}}
	for _, l := range g.LinkedIns {
		linkedins.rows = append(linkedins.rows, []any{run.ID, int32(l.ID), uuid.NewString(), l.URL, l.ProfileName, l.Generic})
	}

	properties := tableRows{cfg: db.UpsertConfig{
		Table:        "properties",
		Columns:      []string{"run_id", "seq", "id", "name", "address", "city", "state", "zip", "details"},
		ConflictKeys: []string{"run_id", "seq"},
		UpdateCols:   []string{"name", "address", "city", "state", "zip", "details"},
	}}
	for _, p := range g.Properties {
		details, err := jsonText(p.Details)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal property details")
		}
		properties.rows = append(properties.rows, []any{
			run.ID, int32(p.ID), uuid.NewString(), p.Name, p.Address, p.City, p.State, p.Zip, details,
		})
	}

	personOrgs := tableRows{cfg: db.UpsertConfig{
		Table:        "person_organizations",
		Columns:      []string{"run_id", "person_seq", "org_seq", "role", "title"},
		ConflictKeys: []string{"run_id", "person_seq", "org_seq", "role"},
		UpdateCols:   []string{"title"},
	}}
	for _, j := range g.PersonOrganizations {
		personOrgs.rows = append(personOrgs.rows, []any{run.ID, int32(j.PersonID), int32(j.OrgID), string(j.Role), j.Title})
	}

	personPhones := tableRows{cfg: db.UpsertConfig{
		Table:        "person_phones",
		Columns:      []string{"run_id", "person_seq", "phone_seq"},
		ConflictKeys: []string{"run_id", "person_seq", "phone_seq"},
	}}
	for _, j := range g.PersonPhones {
		personPhones.rows = append(personPhones.rows, []any{run.ID, int32(j.PersonID), int32(j.PhoneID)})
	}

	personEmails := tableRows{cfg: db.UpsertConfig{
		Table:        "person_emails",
		Columns:      []string{"run_id", "person_seq", "email_seq", "label"},
		ConflictKeys: []string{"run_id", "person_seq", "email_seq"},
		UpdateCols:   []string{"label"},
	}}
	for _, j := range g.PersonEmails {
		personEmails.rows = append(personEmails.rows, []any{run.ID, int32(j.PersonID), int32(j.EmailID), string(j.Label)})
	}

	personLinkedins := tableRows{cfg: db.UpsertConfig{
		Table:        "person_linkedin",
		Columns:      []string{"run_id", "person_seq", "linkedin_seq"},
		ConflictKeys: []string{"run_id", "person_seq", "linkedin_seq"},
	}}
	for _, j := range g.PersonLinkedIns {
		personLinkedins.rows = append(personLinkedins.rows, []any{run.ID, int32(j.PersonID), int32(j.LinkedInID)})
	}

	personProperties := tableRows{cfg: db.UpsertConfig{
		Table:        "person_properties",
		Columns:      []string{"run_id", "person_seq", "property_seq", "role"},
		ConflictKeys: []string{"run_id", "person_seq", "property_seq", "role"},
	}}
	for _, j := range g.PersonProperties {
		personProperties.rows = append(personProperties.rows, []any{run.ID, int32(j.PersonID), int32(j.PropertyID), string(j.Role)})
	}

	propertyPhones := tableRows{cfg: db.UpsertConfig{
		Table:        "property_phones",
		Columns:      []string{"run_id", "property_seq", "phone_seq"},
		ConflictKeys: []string{"run_id", "property_seq", "phone_seq"},
	}}
	for _, j := range g.PropertyPhones {
		propertyPhones.rows = append(propertyPhones.rows, []any{run.ID, int32(j.PropertyID), int32(j.PhoneID)})
	}

	propertyOrgs := tableRows{cfg: db.UpsertConfig{
		Table:        "property_organizations",
		Columns:      []string{"run_id", "property_seq", "org_seq", "role"},
		ConflictKeys: []string{"run_id", "property_seq", "org_seq", "role"},
	}}
	for _, j := range g.PropertyOrganizations {
		propertyOrgs.rows = append(propertyOrgs.rows, []any{run.ID, int32(j.PropertyID), int32(j.OrgID), string(j.Role)})
	}

	findings := tableRows{cfg: db.UpsertConfig{
		Table:        "findings",
		Columns:      []string{"run_id", "kind", "key", "count", "values"},
		ConflictKeys: []string{"run_id", "kind", "key"},
		UpdateCols:   []string{"count", "values"},
	}}
	for _, f := range run.Report.Findings {
		values, err := jsonText(f.Values)
		if err != nil {
			return nil, eris.Wrap(err, "store: marshal finding values")
		}
		findings.rows = append(findings.rows, []any{run.ID, string(f.Kind), f.Key, f.Count, values})
	}

	return []tableRows{
		people, orgs, phones, emails, linkedins, properties,
		personOrgs, personPhones, personEmails, personLinkedins,
		personProperties, propertyPhones, propertyOrgs, findings,
	}, nil
}

func jsonText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
