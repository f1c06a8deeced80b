package mapping

import (
	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/model"
)

// Sentinel concepts skipped during mapping
const (
	nationalityUndetermined = crm.AAT + "300379012"
	genderUnspecified       = crm.AAT + "300400512"
)

// nationalities adds the preferred nationality and every non-preferred one
// except "undetermined". Non-preferred nationalities are not deduplicated.
func (b *builder) nationalities(actor model.Record) {
	for _, n := range actor.Strings("nationalityPref") {
		b.subject.MemberOf = append(b.subject.MemberOf, b.nationality(n))
	}
	for _, n := range actor.Strings("nationalityNonPref") {
		if b.expand(n) == nationalityUndetermined {
			continue
		}
		b.subject.MemberOf = append(b.subject.MemberOf, b.nationality(n))
	}
}

func (b *builder) nationality(concept string) *crm.Entity {
	return crm.NewNationality(b.expand(concept), b.label(kindNationality, concept, true))
}

// biographies maps the preferred biography block, then the non-preferred ones
func (b *builder) biographies(actor model.Record) {
	for _, bio := range actor.Records("biographyPref") {
		b.biography(bio, true)
	}
	for _, bio := range actor.Records("biographyNonPref") {
		b.biography(bio, false)
	}
}

// biography maps birth, death, gender and the descriptive statement of one
// biography block. Non-preferred statements only land when no equal
// statement is already attached.
func (b *builder) biography(bio model.Record, pref bool) {
	if birth := b.existence(crm.NewBirth(), bio.Literal("estStart"), bio.IRI("birthPlace")); birth != nil {
		b.subject.BroughtIntoExistenceBy = b.attach(b.subject.BroughtIntoExistenceBy, birth, pref)
	}
	if death := b.existence(crm.NewDeath(), bio.Literal("estEnd"), bio.IRI("deathPlace")); death != nil {
		b.subject.TakenOutOfExistenceBy = b.attach(b.subject.TakenOutOfExistenceBy, death, pref)
	}

	if g := bio.IRI("gender"); g != "" && b.expand(g) != genderUnspecified {
		gender := crm.NewGender(b.expand(g), b.label(kindGender, g, true))
		b.subject.MemberOf = b.attach(b.subject.MemberOf, gender, pref)
	}

	if text := bio.Literal("personDescription"); text != "" {
		b.statement(text, bio.IRI("contributor"))
	}
}

// existence fills a birth or death event; nil when neither date nor place is known
func (b *builder) existence(ev *crm.Entity, date, place string) *crm.Entity {
	if date == "" && place == "" {
		return nil
	}
	if date != "" {
		ev.Timespan = crm.NewTimeSpan(date, date)
	}
	if place != "" {
		ev.TookPlaceAt = []*crm.Entity{b.place(place)}
	}
	return ev
}

// statement attaches a biography statement, reusing an equal one so its
// contributor is recorded on the existing object.
func (b *builder) statement(text, contributor string) {
	stmt := crm.NewBiography(text)
	if existing := b.bioDedupe.Exists(stmt, b.subject.ReferredToBy); existing != nil {
		stmt = existing
	} else {
		b.subject.ReferredToBy = append(b.subject.ReferredToBy, stmt)
	}

	if contributor == "" {
		return
	}
	if stmt.CreatedBy == nil {
		stmt.CreatedBy = crm.NewCreation()
	}
	actor := b.expand(contributor)
	for _, a := range stmt.CreatedBy.CarriedOutBy {
		if a.ID == actor {
			return
		}
	}
	stmt.CreatedBy.CarriedOutBy = append(stmt.CreatedBy.CarriedOutBy, crm.NewActor(actor))
}
