package model

// Role identifies which contact slot of a source row a person was observed in.
type Role string

const (
	RoleOwner           Role = "owner"
	RoleManager         Role = "manager"
	RoleTrustee         Role = "trustee"
	RoleSpecialServicer Role = "special_servicer"
	RoleContact         Role = "contact"
)

// RoleSlot is one contact slot within a source row. All fields are raw strings
// exactly as they appeared in the source; normalization happens downstream.
// Empty string means the source had no value for the field.
type RoleSlot struct {
	Role           Role   `json:"role"`
	EntityName     string `json:"entity_name,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	SecondaryEmail string `json:"secondary_email,omitempty"`
	CompanyEmail   string `json:"company_email,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Title          string `json:"title,omitempty"`
	Category       string `json:"category,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Zip            string `json:"zip,omitempty"`
	Country        string `json:"country,omitempty"`
	Website        string `json:"website,omitempty"`

	// OrgDetails carries firm-level descriptive fields that belong in the
	// organization's details bag (aum, year_founded, investment_prefs, about).
	OrgDetails map[string]string `json:"org_details,omitempty"`
}

// PropertyInfo carries the property-level columns of a property-role sheet row.
// Outreach and firm-contact sources leave it nil.
type PropertyInfo struct {
	Name    string            `json:"name"`
	Address string            `json:"address"`
	City    string            `json:"city,omitempty"`
	State   string            `json:"state,omitempty"`
	Zip     string            `json:"zip,omitempty"`
	Phone   string            `json:"phone,omitempty"` // property line, may be an orphan channel
	Details map[string]string `json:"details,omitempty"`
}

// SourceRecord is one row from one input source: a tagged bag of optional
// fields with a fixed-arity slot list. Immutable once ingested.
type SourceRecord struct {
	SourceID string        `json:"source_id"` // originating list identifier
	RowIndex int           `json:"row_index"` // original row position within the source
	Property *PropertyInfo `json:"property,omitempty"`
	Slots    []RoleSlot    `json:"slots"`

	// Per-source person metadata, unioned/arbitrated during merge.
	Tags       []string `json:"tags,omitempty"`
	LeadStatus string   `json:"lead_status,omitempty"`
	OrgType    string   `json:"org_type,omitempty"` // applied to organizations created from this source
	// PersonDetails carries per-person descriptive fields from the source
	// (location, alma_mater, import_source, ...).
	PersonDetails map[string]string `json:"person_details,omitempty"`

	// Email deliverability flags from the outreach contacts export.
	EmailBounced      bool   `json:"email_bounced,omitempty"`
	EmailUnsubscribed bool   `json:"email_unsubscribed,omitempty"`
	SuppressionReason string `json:"suppression_reason,omitempty"`
	SuppressionDate   string `json:"suppression_date,omitempty"`
}

// Valid reports whether the record meets the structural minimum for merging.
// Records without a source identifier are excluded from the run and counted
// as skipped in the MergeReport.
func (r *SourceRecord) Valid() bool {
	return r.SourceID != "" && r.RowIndex >= 0
}
