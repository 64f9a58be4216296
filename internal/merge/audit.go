package merge

import (
	"sort"

	"github.com/sells-group/contactgraph/internal/model"
	"github.com/sells-group/contactgraph/internal/normalize"
)

// audit runs the read-only collision pass over a finished graph. Findings are
// advisory: they surface over-shared keys for manual review and never feed
// back into canonical identity. Empty findings on clean input is the
// expected outcome, not an error.
func audit(g model.EntityGraph, generic map[string][]string, threshold int) []model.Finding {
	var findings []model.Finding

	displayName := func(pid model.PersonID) string {
		p := g.People[pid]
		return normalize.PersonName(p.FirstName, p.LastName)
	}

	// (a) Channels linked to more distinct people than the threshold allows.
	phonePeople := make(map[model.PhoneID][]model.PersonID)
	for _, pp := range g.PersonPhones {
		phonePeople[pp.PhoneID] = append(phonePeople[pp.PhoneID], pp.PersonID)
	}
	for phoneID, people := range phonePeople {
		if len(people) <= threshold {
			continue
		}
		var names []string
		for _, pid := range people {
			names = appendUnique(names, displayName(pid))
		}
		sort.Strings(names)
		findings = append(findings, model.Finding{
			Kind:   model.FindingSharedPhone,
			Key:    g.Phones[phoneID].Number,
			Count:  len(people),
			Values: names,
		})
	}

	linkedinPeople := make(map[model.LinkedInID][]model.PersonID)
	for _, pl := range g.PersonLinkedIns {
		linkedinPeople[pl.LinkedInID] = append(linkedinPeople[pl.LinkedInID], pl.PersonID)
	}
	for liID, people := range linkedinPeople {
		if len(people) <= threshold {
			continue
		}
		var names []string
		for _, pid := range people {
			names = appendUnique(names, displayName(pid))
		}
		sort.Strings(names)
		findings = append(findings, model.Finding{
			Kind:   model.FindingSharedLinkedIn,
			Key:    g.LinkedIns[liID].URL,
			Count:  len(people),
			Values: names,
		})
	}

	// URLs excluded as merge keys during the run.
	for url, names := range generic {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		findings = append(findings, model.Finding{
			Kind:   model.FindingGenericLinkedIn,
			Key:    url,
			Count:  len(sorted),
			Values: sorted,
		})
	}

	// (b) One name observed with multiple distinct phones. A common name is
	// not identity evidence, so these stay separate people — but reviewers
	// want to see them.
	namePhones := make(map[string]map[string]struct{})
	for _, pp := range g.PersonPhones {
		name := displayName(pp.PersonID)
		if name == "" {
			continue
		}
		if namePhones[name] == nil {
			namePhones[name] = make(map[string]struct{})
		}
		namePhones[name][g.Phones[pp.PhoneID].Number] = struct{}{}
	}
	for name, phones := range namePhones {
		if len(phones) < 2 {
			continue
		}
		numbers := make([]string, 0, len(phones))
		for n := range phones {
			numbers = append(numbers, n)
		}
		sort.Strings(numbers)
		findings = append(findings, model.Finding{
			Kind:   model.FindingNameCollision,
			Key:    name,
			Count:  len(numbers),
			Values: numbers,
		})
	}

	// (c) Organization names that collapse under the suffix-stripped
	// reporting transform. Informational only — never merged.
	stripped := make(map[string][]string)
	for _, o := range g.Organizations {
		base := normalize.StripLegalSuffix(normalize.OrgName(o.Name))
		if base == "" {
			continue
		}
		stripped[base] = appendUnique(stripped[base], o.Name)
	}
	for base, names := range stripped {
		if len(names) < 2 {
			continue
		}
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		findings = append(findings, model.Finding{
			Kind:   model.FindingSimilarOrgNames,
			Key:    base,
			Count:  len(sorted),
			Values: sorted,
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Kind != findings[j].Kind {
			return findings[i].Kind < findings[j].Kind
		}
		return findings[i].Key < findings[j].Key
	})
	return findings
}
