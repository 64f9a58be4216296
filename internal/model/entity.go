package model

// Dense in-run entity ids. The store layer maps them to UUIDs on persist;
// within one run they are stable and index into the EntityGraph slices.
type (
	PersonID   int32
	OrgID      int32
	PhoneID    int32
	EmailID    int32
	LinkedInID int32
	PropertyID int32
)

// LeadStatus values, coldest to warmest. Arbitration keeps the warmest.
var LeadStatusPriority = map[string]int{
	"new":            0,
	"cold":           1,
	"warm":           2,
	"hot":            3,
	"customer":       4,
	"do_not_contact": 5,
}

// WarmerLeadStatus returns the warmer of two lead statuses; unknown values
// rank as "new".
func WarmerLeadStatus(a, b string) string {
	if a == "" {
		a = "new"
	}
	if b == "" {
		b = "new"
	}
	if LeadStatusPriority[b] > LeadStatusPriority[a] {
		return b
	}
	return a
}

// Person is a canonical deduplicated individual.
type Person struct {
	ID         PersonID          `json:"id"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	LeadStatus string            `json:"lead_status"`
	Tags       []string          `json:"tags,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// Organization is a canonical firm/entity. Identity is the exact normalized
// name string; Name preserves the first-seen original casing.
type Organization struct {
	ID       OrgID  `json:"id"`
	Name     string `json:"name"`
	OrgType  string `json:"org_type,omitempty"`
	Category string `json:"category,omitempty"`

	// Company-level contact attributes, resolved by most-common value.
	CompanyEmail string `json:"company_email,omitempty"`
	// CompanyEmailConflicted is advisory: set when ≥2 distinct company emails
	// were observed and none reached a majority.
	CompanyEmailConflicted bool `json:"company_email_conflicted,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Website string `json:"website,omitempty"`

	Details map[string]string `json:"details,omitempty"` // aum, year_founded, investment_prefs, about
}

// EmailStatus tracks deliverability of an email channel.
type EmailStatus string

const (
	EmailActive     EmailStatus = "active"
	EmailBounced    EmailStatus = "bounced"
	EmailSuppressed EmailStatus = "suppressed"
)

// Phone is a communication channel, unique per normalized 10-digit number.
type Phone struct {
	ID     PhoneID `json:"id"`
	Number string  `json:"number"`
}

// Email is a communication channel, unique per lowercased address.
type Email struct {
	ID       EmailID           `json:"id"`
	Address  string            `json:"address"`
	Status   EmailStatus       `json:"status"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// LinkedInProfile is a communication channel, unique per canonical URL.
type LinkedInProfile struct {
	ID          LinkedInID `json:"id"`
	URL         string     `json:"url"`
	ProfileName string     `json:"profile_name,omitempty"`
	// Generic marks organizational/shared pages that were excluded as a
	// person-merge key.
	Generic bool `json:"generic,omitempty"`
}

// Property is a real-estate asset from a property-role sheet, dedup key
// (name, address).
type Property struct {
	ID      PropertyID        `json:"id"`
	Name    string            `json:"name"`
	Address string            `json:"address"`
	City    string            `json:"city,omitempty"`
	State   string            `json:"state,omitempty"`
	Zip     string            `json:"zip,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// EmailLabel classifies a person↔email link.
type EmailLabel string

const (
	EmailLabelPersonal  EmailLabel = "personal"
	EmailLabelSecondary EmailLabel = "secondary"
)

// Junction rows. Each is unique per its id tuple regardless of how many
// source rows repeated the observation.
type (
	PersonOrganization struct {
		PersonID PersonID `json:"person_id"`
		OrgID    OrgID    `json:"organization_id"`
		Role     Role     `json:"role"`
		Title    string   `json:"title,omitempty"`
	}

	PersonPhone struct {
		PersonID PersonID `json:"person_id"`
		PhoneID  PhoneID  `json:"phone_id"`
	}

	PersonEmail struct {
		PersonID PersonID   `json:"person_id"`
		EmailID  EmailID    `json:"email_id"`
		Label    EmailLabel `json:"label"`
	}

	PersonLinkedIn struct {
		PersonID   PersonID   `json:"person_id"`
		LinkedInID LinkedInID `json:"linkedin_id"`
	}

	// PersonProperty records each distinct property a person role was
	// observed on — the high-cardinality provenance side of the collapsed
	// PersonOrganization relationship.
	PersonProperty struct {
		PersonID   PersonID   `json:"person_id"`
		PropertyID PropertyID `json:"property_id"`
		Role       Role       `json:"role"`
	}

	// PropertyPhone links an orphan property-level phone to its property.
	PropertyPhone struct {
		PropertyID PropertyID `json:"property_id"`
		PhoneID    PhoneID    `json:"phone_id"`
	}

	PropertyOrganization struct {
		PropertyID PropertyID `json:"property_id"`
		OrgID      OrgID      `json:"organization_id"`
		Role       Role       `json:"role"`
	}
)

// EntityGraph is the finished output of a merge run: canonical entities plus
// junction tables. Slices are indexed by the dense ids above.
type EntityGraph struct {
	People        []Person          `json:"people"`
	Organizations []Organization    `json:"organizations"`
	Phones        []Phone           `json:"phones"`
	Emails        []Email           `json:"emails"`
	LinkedIns     []LinkedInProfile `json:"linkedin_profiles"`
	Properties    []Property        `json:"properties"`

	PersonOrganizations   []PersonOrganization   `json:"person_organizations"`
	PersonPhones          []PersonPhone          `json:"person_phones"`
	PersonEmails          []PersonEmail          `json:"person_emails"`
	PersonLinkedIns       []PersonLinkedIn       `json:"person_linkedin"`
	PersonProperties      []PersonProperty       `json:"person_properties"`
	PropertyPhones        []PropertyPhone        `json:"property_phones"`
	PropertyOrganizations []PropertyOrganization `json:"property_organizations"`
}
