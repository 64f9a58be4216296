package merge

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contactgraph/internal/model"
	"github.com/sells-group/contactgraph/internal/normalize"
)

// graphBuilder materializes canonical entities and junction rows from a
// frozen partition. All iteration follows the deterministic observation
// order, so entity ids are stable across runs over the same input.
type graphBuilder struct {
	records []*model.SourceRecord
	obs     []observation
	part    *partition
	generic map[string][]string

	graph model.EntityGraph

	phoneIDs    map[string]model.PhoneID
	emailIDs    map[string]model.EmailID
	linkedinIDs map[string]model.LinkedInID
	orgIDs      map[string]model.OrgID
	propertyIDs map[propertyKey]model.PropertyID
	personOf    map[int32]model.PersonID // observation index → canonical person
}

type propertyKey struct {
	name    string
	address string
}

func newGraphBuilder(records []*model.SourceRecord, obs []observation, part *partition, generic map[string][]string) *graphBuilder {
	return &graphBuilder{
		records:     records,
		obs:         obs,
		part:        part,
		generic:     generic,
		phoneIDs:    make(map[string]model.PhoneID),
		emailIDs:    make(map[string]model.EmailID),
		linkedinIDs: make(map[string]model.LinkedInID),
		orgIDs:      make(map[string]model.OrgID),
		propertyIDs: make(map[propertyKey]model.PropertyID),
		personOf:    make(map[int32]model.PersonID),
	}
}

func (b *graphBuilder) build(ctx context.Context) (model.EntityGraph, error) {
	b.buildChannels()
	b.buildProperties()
	b.buildOrganizations()
	if err := b.buildPeople(ctx); err != nil {
		return model.EntityGraph{}, err
	}
	b.buildJunctions()
	return b.graph, nil
}

// buildChannels creates one Phone/Email/LinkedInProfile per normalized value,
// in first-seen order. Email status upgrades from active to bounced or
// suppressed if any contributing record carried deliverability flags.
func (b *graphBuilder) buildChannels() {
	for i := range b.obs {
		o := &b.obs[i]
		if o.keys.Phone != "" {
			b.internPhone(o.keys.Phone)
		}
		if o.keys.Email != "" {
			b.internEmail(o.keys.Email, o.rec)
		}
		if o.keys.SecondaryEmail != "" {
			b.internEmail(o.keys.SecondaryEmail, nil)
		}
		if o.keys.LinkedIn != "" {
			id, created := b.internLinkedIn(o.keys.LinkedIn)
			if created && o.keys.Name != "" {
				b.graph.LinkedIns[id].ProfileName = o.keys.Name
			}
		}
	}

	// Property-level phone lines become channels too, even when orphaned.
	for _, rec := range b.records {
		if rec.Property == nil {
			continue
		}
		if digits := normalize.Phone(rec.Property.Phone); digits != "" {
			b.internPhone(digits)
		}
	}
}

func (b *graphBuilder) internPhone(digits string) model.PhoneID {
	if id, ok := b.phoneIDs[digits]; ok {
		return id
	}
	id := model.PhoneID(len(b.graph.Phones))
	b.phoneIDs[digits] = id
	b.graph.Phones = append(b.graph.Phones, model.Phone{ID: id, Number: digits})
	return id
}

func (b *graphBuilder) internEmail(addr string, rec *model.SourceRecord) model.EmailID {
	id, ok := b.emailIDs[addr]
	if !ok {
		id = model.EmailID(len(b.graph.Emails))
		b.emailIDs[addr] = id
		b.graph.Emails = append(b.graph.Emails, model.Email{ID: id, Address: addr, Status: model.EmailActive})
	}
	if rec == nil {
		return id
	}
	em := &b.graph.Emails[id]
	if rec.EmailBounced && em.Status == model.EmailActive {
		em.Status = model.EmailBounced
	}
	if rec.EmailUnsubscribed {
		em.Status = model.EmailSuppressed
		if rec.SuppressionReason != "" || rec.SuppressionDate != "" {
			if em.Metadata == nil {
				em.Metadata = make(map[string]string)
			}
			if rec.SuppressionReason != "" {
				em.Metadata["suppression_reason"] = rec.SuppressionReason
			}
			if rec.SuppressionDate != "" {
				em.Metadata["suppression_date"] = rec.SuppressionDate
			}
		}
	}
	return id
}

func (b *graphBuilder) internLinkedIn(url string) (model.LinkedInID, bool) {
	if id, ok := b.linkedinIDs[url]; ok {
		return id, false
	}
	id := model.LinkedInID(len(b.graph.LinkedIns))
	b.linkedinIDs[url] = id
	_, isGeneric := b.generic[url]
	b.graph.LinkedIns = append(b.graph.LinkedIns, model.LinkedInProfile{ID: id, URL: url, Generic: isGeneric})
	return id, true
}

// buildProperties creates one Property per (name, address) pair in record
// order.
func (b *graphBuilder) buildProperties() {
	for _, rec := range b.records {
		p := rec.Property
		if p == nil {
			continue
		}
		key := propertyKey{name: p.Name, address: p.Address}
		if _, ok := b.propertyIDs[key]; ok {
			continue
		}
		id := model.PropertyID(len(b.graph.Properties))
		b.propertyIDs[key] = id
		b.graph.Properties = append(b.graph.Properties, model.Property{
			ID:      id,
			Name:    p.Name,
			Address: p.Address,
			City:    p.City,
			State:   p.State,
			Zip:     p.Zip,
			Details: p.Details,
		})
	}
}

// buildOrganizations groups org observations by exact normalized name — the
// single organization matching rule — and resolves attributes per group.
func (b *graphBuilder) buildOrganizations() {
	accs := make(map[string]*orgAccumulator)
	var order []string
	for i := range b.obs {
		o := b.obs[i]
		n := o.keys.OrgName
		if n == "" {
			continue
		}
		acc, ok := accs[n]
		if !ok {
			acc = newOrgAccumulator(cleanOriginal(o.slot.EntityName))
			accs[n] = acc
			order = append(order, n)
		}
		acc.observe(o)
	}
	for _, n := range order {
		id := model.OrgID(len(b.graph.Organizations))
		b.orgIDs[n] = id
		b.graph.Organizations = append(b.graph.Organizations, accs[n].resolve(id))
	}
}

// buildPeople resolves attributes for each finished person group. Groups are
// disjoint and write to distinct indices, so resolution fans out across
// workers once the partition is frozen.
func (b *graphBuilder) buildPeople(ctx context.Context) error {
	groups := b.part.groups(func(i int32) bool {
		return b.obs[i].keys.Name != ""
	})

	b.graph.People = make([]model.Person, len(groups))
	for gi, members := range groups {
		for _, m := range members {
			b.personOf[m] = model.PersonID(gi)
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for gi, members := range groups {
		gi, members := gi, members
		g.Go(func() error {
			obs := make([]observation, len(members))
			for i, m := range members {
				obs[i] = b.obs[m]
			}
			b.graph.People[gi] = resolvePerson(model.PersonID(gi), obs)
			return nil
		})
	}
	return g.Wait()
}

// buildJunctions materializes every junction table, deduplicated on its id
// tuple. The same person/org/role triple observed on hundreds of rows
// collapses to one PersonOrganization row; each distinct property is still
// recorded via PersonProperty.
func (b *graphBuilder) buildJunctions() {
	type poKey struct {
		p model.PersonID
		o model.OrgID
		r model.Role
	}
	type ppKey struct {
		p  model.PersonID
		ph model.PhoneID
	}
	type peKey struct {
		p model.PersonID
		e model.EmailID
	}
	type plKey struct {
		p model.PersonID
		l model.LinkedInID
	}
	type prKey struct {
		p  model.PersonID
		pr model.PropertyID
		r  model.Role
	}
	type orphanKey struct {
		pr model.PropertyID
		ph model.PhoneID
	}
	type proKey struct {
		pr model.PropertyID
		o  model.OrgID
		r  model.Role
	}

	seenPO := make(map[poKey]struct{})
	seenPP := make(map[ppKey]struct{})
	seenPE := make(map[peKey]struct{})
	seenPL := make(map[plKey]struct{})
	seenPR := make(map[prKey]struct{})
	seenOrphan := make(map[orphanKey]struct{})
	seenPRO := make(map[proKey]struct{})

	for i := range b.obs {
		o := b.obs[i]
		k := o.keys

		var propID model.PropertyID
		hasProp := false
		if o.rec.Property != nil {
			propID = b.propertyIDs[propertyKey{name: o.rec.Property.Name, address: o.rec.Property.Address}]
			hasProp = true
		}

		// Direct property ↔ organization link: exists whether or not the
		// slot names a person.
		if k.OrgName != "" && hasProp {
			key := proKey{pr: propID, o: b.orgIDs[k.OrgName], r: o.slot.Role}
			if _, ok := seenPRO[key]; !ok {
				seenPRO[key] = struct{}{}
				b.graph.PropertyOrganizations = append(b.graph.PropertyOrganizations, model.PropertyOrganization{
					PropertyID: propID,
					OrgID:      b.orgIDs[k.OrgName],
					Role:       o.slot.Role,
				})
			}
		}

		if k.Name == "" {
			// Orphan channel: a slot phone with no accompanying name links to
			// the property, never to a person.
			if k.Phone != "" && hasProp {
				key := orphanKey{pr: propID, ph: b.phoneIDs[k.Phone]}
				if _, ok := seenOrphan[key]; !ok {
					seenOrphan[key] = struct{}{}
					b.graph.PropertyPhones = append(b.graph.PropertyPhones, model.PropertyPhone{
						PropertyID: propID,
						PhoneID:    b.phoneIDs[k.Phone],
					})
				}
			}
			continue
		}

		pid := b.personOf[int32(i)]

		if k.Phone != "" {
			key := ppKey{p: pid, ph: b.phoneIDs[k.Phone]}
			if _, ok := seenPP[key]; !ok {
				seenPP[key] = struct{}{}
				b.graph.PersonPhones = append(b.graph.PersonPhones, model.PersonPhone{PersonID: pid, PhoneID: key.ph})
			}
		}
		if k.Email != "" {
			key := peKey{p: pid, e: b.emailIDs[k.Email]}
			if _, ok := seenPE[key]; !ok {
				seenPE[key] = struct{}{}
				b.graph.PersonEmails = append(b.graph.PersonEmails, model.PersonEmail{
					PersonID: pid, EmailID: key.e, Label: model.EmailLabelPersonal,
				})
			}
		}
		if k.SecondaryEmail != "" {
			key := peKey{p: pid, e: b.emailIDs[k.SecondaryEmail]}
			if _, ok := seenPE[key]; !ok {
				seenPE[key] = struct{}{}
				b.graph.PersonEmails = append(b.graph.PersonEmails, model.PersonEmail{
					PersonID: pid, EmailID: key.e, Label: model.EmailLabelSecondary,
				})
			}
		}
		if k.LinkedIn != "" {
			key := plKey{p: pid, l: b.linkedinIDs[k.LinkedIn]}
			if _, ok := seenPL[key]; !ok {
				seenPL[key] = struct{}{}
				b.graph.PersonLinkedIns = append(b.graph.PersonLinkedIns, model.PersonLinkedIn{PersonID: pid, LinkedInID: key.l})
			}
		}
		if k.OrgName != "" {
			key := poKey{p: pid, o: b.orgIDs[k.OrgName], r: o.slot.Role}
			if _, ok := seenPO[key]; !ok {
				seenPO[key] = struct{}{}
				b.graph.PersonOrganizations = append(b.graph.PersonOrganizations, model.PersonOrganization{
					PersonID: pid, OrgID: key.o, Role: o.slot.Role, Title: o.slot.Title,
				})
			}
		}
		if hasProp {
			key := prKey{p: pid, pr: propID, r: o.slot.Role}
			if _, ok := seenPR[key]; !ok {
				seenPR[key] = struct{}{}
				b.graph.PersonProperties = append(b.graph.PersonProperties, model.PersonProperty{
					PersonID: pid, PropertyID: propID, Role: o.slot.Role,
				})
			}
		}
	}

	// Row-level property phone lines: orphaned unless the same number appears
	// on a named contact slot of the same row.
	contactPhones := make(map[int]map[string]struct{})
	for i := range b.obs {
		o := b.obs[i]
		if o.keys.Name == "" || o.keys.Phone == "" {
			continue
		}
		if contactPhones[o.recIdx] == nil {
			contactPhones[o.recIdx] = make(map[string]struct{})
		}
		contactPhones[o.recIdx][o.keys.Phone] = struct{}{}
	}
	for ri, rec := range b.records {
		p := rec.Property
		if p == nil {
			continue
		}
		digits := normalize.Phone(p.Phone)
		if digits == "" {
			continue
		}
		if _, onContact := contactPhones[ri][digits]; onContact {
			continue
		}
		propID := b.propertyIDs[propertyKey{name: p.Name, address: p.Address}]
		key := orphanKey{pr: propID, ph: b.phoneIDs[digits]}
		if _, ok := seenOrphan[key]; !ok {
			seenOrphan[key] = struct{}{}
			b.graph.PropertyPhones = append(b.graph.PropertyPhones, model.PropertyPhone{
				PropertyID: propID,
				PhoneID:    b.phoneIDs[digits],
			})
		}
	}
}

// cleanOriginal trims an original-casing value for display without altering
// its identity semantics.
func cleanOriginal(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
