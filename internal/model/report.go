package model

// FindingKind classifies a collision-audit finding.
type FindingKind string

const (
	FindingSharedPhone     FindingKind = "shared_phone"     // one phone, many distinct people
	FindingSharedLinkedIn  FindingKind = "shared_linkedin"  // one URL, many distinct people
	FindingGenericLinkedIn FindingKind = "generic_linkedin" // URL excluded as a merge key
	FindingNameCollision   FindingKind = "name_collision"   // one name, many distinct phones
	FindingSimilarOrgNames FindingKind = "similar_org_names" // suffix-stripped near duplicates
)

// Finding is one advisory collision-audit result. Findings never affect the
// merge outcome; they exist for reporting and manual review.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Key    string      `json:"key"`              // the shared value (phone digits, URL, name)
	Count  int         `json:"count"`            // distinct entities sharing it
	Values []string    `json:"values,omitempty"` // the colliding names/numbers/org names
}

// EntityCounts summarizes creation and merge activity for one entity type.
type EntityCounts struct {
	Created int `json:"created"`
	Merged  int `json:"merged"` // observations folded into an existing entity
}

// MergeReport summarizes one engine run. A completed run always produces a
// report, even when every record was skipped.
type MergeReport struct {
	Sources []SourceSummary `json:"sources"`

	People        EntityCounts `json:"people"`
	Organizations EntityCounts `json:"organizations"`
	Phones        EntityCounts `json:"phones"`
	Emails        EntityCounts `json:"emails"`
	LinkedIns     EntityCounts `json:"linkedin_profiles"`
	Properties    EntityCounts `json:"properties"`

	SkippedRecords int `json:"skipped_records"` // structural schema violations
	EmptySlots     int `json:"empty_slots"`     // no usable key at all
	NamelessSlots  int `json:"nameless_slots"`  // phone/entity present, no person name

	ConflictedCompanyEmails int `json:"conflicted_company_emails"`

	Findings []Finding `json:"findings,omitempty"`
}

// SourceSummary reports per-source ingestion counts.
type SourceSummary struct {
	SourceID string `json:"source_id"`
	Records  int    `json:"records"`
	Slots    int    `json:"slots"`
}
