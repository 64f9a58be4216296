package merge

import (
	"github.com/sells-group/contactgraph/internal/model"
)

// valueArbiter picks a representative value for one scalar attribute when
// group members disagree: most frequent non-empty value wins, ties broken by
// first-seen order under the deterministic processing order.
type valueArbiter struct {
	counts map[string]int
	order  []string
	total  int
}

func newArbiter() *valueArbiter {
	return &valueArbiter{counts: make(map[string]int)}
}

func (a *valueArbiter) observe(v string) {
	if v == "" {
		return
	}
	if _, seen := a.counts[v]; !seen {
		a.order = append(a.order, v)
	}
	a.counts[v]++
	a.total++
}

// resolve returns the winning value and whether the attribute is conflicted:
// ≥2 distinct values observed with no single value reaching a majority.
func (a *valueArbiter) resolve() (string, bool) {
	best := ""
	bestCount := 0
	for _, v := range a.order {
		if a.counts[v] > bestCount {
			best = v
			bestCount = a.counts[v]
		}
	}
	conflicted := len(a.order) >= 2 && bestCount*2 <= a.total
	return best, conflicted
}

func (a *valueArbiter) value() string {
	v, _ := a.resolve()
	return v
}

// resolvePerson arbitrates the descriptive attributes of one person group.
// Tags are unioned, never voted on; lead status keeps the warmest value.
func resolvePerson(id model.PersonID, members []observation) model.Person {
	first := newArbiter()
	last := newArbiter()

	p := model.Person{ID: id, LeadStatus: "new"}
	tagSeen := make(map[string]struct{})

	for _, o := range members {
		first.observe(o.slot.FirstName)
		last.observe(o.slot.LastName)
		p.LeadStatus = model.WarmerLeadStatus(p.LeadStatus, o.rec.LeadStatus)
		for _, t := range o.rec.Tags {
			if _, ok := tagSeen[t]; ok || t == "" {
				continue
			}
			tagSeen[t] = struct{}{}
			p.Tags = append(p.Tags, t)
		}
		for k, v := range o.rec.PersonDetails {
			if v == "" {
				continue
			}
			if p.Details == nil {
				p.Details = make(map[string]string)
			}
			if _, ok := p.Details[k]; !ok {
				p.Details[k] = v
			}
		}
	}

	p.FirstName = first.value()
	p.LastName = last.value()
	return p
}

// orgAccumulator collects attribute observations for one organization across
// every slot that referenced it.
type orgAccumulator struct {
	name    string // first-seen original casing
	orgType string // first-seen non-empty

	category     *valueArbiter
	companyEmail *valueArbiter
	address      *valueArbiter
	city         *valueArbiter
	state        *valueArbiter
	zip          *valueArbiter
	country      *valueArbiter
	website      *valueArbiter
	details      map[string]*valueArbiter // aum, year_founded, investment_prefs, about
	detailOrder  []string
}

func newOrgAccumulator(originalName string) *orgAccumulator {
	return &orgAccumulator{
		name:         originalName,
		category:     newArbiter(),
		companyEmail: newArbiter(),
		address:      newArbiter(),
		city:         newArbiter(),
		state:        newArbiter(),
		zip:          newArbiter(),
		country:      newArbiter(),
		website:      newArbiter(),
		details:      make(map[string]*valueArbiter),
	}
}

func (a *orgAccumulator) observe(o observation) {
	if a.orgType == "" {
		a.orgType = o.rec.OrgType
	}
	a.category.observe(o.slot.Category)
	a.companyEmail.observe(o.keys.CompanyEmail)
	a.address.observe(o.slot.Address)
	a.city.observe(o.slot.City)
	a.state.observe(o.slot.State)
	a.zip.observe(o.slot.Zip)
	a.country.observe(o.slot.Country)
	a.website.observe(o.slot.Website)
	for k, v := range o.slot.OrgDetails {
		arb, ok := a.details[k]
		if !ok {
			arb = newArbiter()
			a.details[k] = arb
			a.detailOrder = append(a.detailOrder, k)
		}
		arb.observe(v)
	}
}

// resolve produces the canonical organization. Company email keeps the mode
// even when conflicted; the conflict flag is advisory metadata for audit.
func (a *orgAccumulator) resolve(id model.OrgID) model.Organization {
	email, conflicted := a.companyEmail.resolve()
	var details map[string]string
	for _, k := range a.detailOrder {
		if v := a.details[k].value(); v != "" {
			if details == nil {
				details = make(map[string]string)
			}
			details[k] = v
		}
	}
	return model.Organization{
		ID:                     id,
		Name:                   a.name,
		OrgType:                a.orgType,
		Category:               a.category.value(),
		CompanyEmail:           email,
		CompanyEmailConflicted: conflicted,
		Address:                a.address.value(),
		City:                   a.city.value(),
		State:                  a.state.value(),
		Zip:                    a.zip.value(),
		Country:                a.country.value(),
		Website:                a.website.value(),
		Details:                details,
	}
}
