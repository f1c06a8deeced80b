package crm

import (
	"strings"

	"github.com/google/uuid"
)

// AAT is the Getty Art & Architecture Thesaurus namespace
const AAT = "http://vocab.getty.edu/aat/"

// Classification concepts used by the Linked Art vocabulary
const (
	TypePrimaryName = AAT + "300404670"
	TypeNationality = AAT + "300379842"
	TypeGender      = AAT + "300055147"
	TypeBiography   = AAT + "300435422"
	TypeBriefText   = AAT + "300418049"
	TypeDescription = AAT + "300411780"
	TypeWebPage     = AAT + "300264578"
	TypeActive      = AAT + "300393177"
)

// Term classifications for names
const (
	TypePseudonym  = AAT + "300404657"
	TypeIndexing   = AAT + "300404668"
	TypeVernacular = AAT + "__vernacular" // TODO: replace once AAT publishes a vernacular-name concept
)

var typeLabels = map[string]string{
	TypePrimaryName: "Primary Name",
	TypeNationality: "Nationality",
	TypeGender:      "Gender",
	TypeBiography:   "Biography Statement",
	TypeBriefText:   "Brief Text",
	TypeDescription: "Description",
	TypeWebPage:     "Web Page",
	TypeActive:      "Professional Activities",
}

// MintedPrefix starts every identifier produced by NewID
const MintedPrefix = "urn:uuid:"

// NewID mints identifiers for nodes that have no vocabulary IRI of their own
var NewID = func() string {
	return MintedPrefix + uuid.NewString()
}

// IsMinted reports whether id was minted locally rather than taken from a vocabulary
func IsMinted(id string) bool {
	return id == "" || strings.HasPrefix(id, MintedPrefix)
}

func newEntity(class, id string) *Entity {
	if id == "" {
		id = NewID()
	}
	return &Entity{ID: id, Type: class}
}

// NewType returns a Type node; well-known vocabulary concepts get their label
func NewType(id string) *Entity {
	return &Entity{ID: id, Type: ClassType, Label: NewLabel(typeLabels[id])}
}

// NewPerson returns a Person with the given IRI
func NewPerson(id string) *Entity {
	return &Entity{ID: id, Type: ClassPerson}
}

// NewGroup returns a Group with the given IRI, or a minted one when empty
func NewGroup(id string) *Entity {
	return newEntity(ClassGroup, id)
}

// NewActor returns an Actor stub for an IRI whose class is not known
func NewActor(id string) *Entity {
	return &Entity{ID: id, Type: ClassActor}
}

// NewName returns an appellation
func NewName() *Entity {
	return newEntity(ClassName, "")
}

// NewPrimaryName returns an appellation classified as the primary name
func NewPrimaryName() *Entity {
	n := NewName()
	n.ClassifiedAs = []*Entity{NewType(TypePrimaryName)}
	return n
}

// NewTimeSpan returns a time-span bounded by begin and end
func NewTimeSpan(begin, end string) *Entity {
	ts := newEntity(ClassTimeSpan, "")
	ts.BeginOfTheBegin = begin
	ts.EndOfTheEnd = end
	return ts
}

// NewPlace returns a Place with an optional label
func NewPlace(id, label string) *Entity {
	return &Entity{ID: id, Type: ClassPlace, Label: NewLabel(label)}
}

// NewBirth returns an empty beginning-of-existence event
func NewBirth() *Entity {
	return newEntity(ClassBeginningOfExistence, "")
}

// NewDeath returns an empty end-of-existence event
func NewDeath() *Entity {
	return newEntity(ClassEndOfExistence, "")
}

// NewActive returns the "professional activities" statement
func NewActive(id string) *Entity {
	a := newEntity(ClassActivity, id)
	a.ClassifiedAs = []*Entity{NewType(TypeActive)}
	return a
}

// NewActivity returns an activity classified by the given event type
func NewActivity(id, eventType string) *Entity {
	a := newEntity(ClassActivity, id)
	a.ClassifiedAs = []*Entity{NewType(eventType)}
	return a
}

// NewNationality returns a nationality group classified by the given concept
func NewNationality(concept, label string) *Entity {
	return newMembership(TypeNationality, concept, label)
}

// NewGender returns a gender group classified by the given concept
func NewGender(concept, label string) *Entity {
	return newMembership(TypeGender, concept, label)
}

// newMembership labels the concept node too, so statements stay
// distinguishable when identifiers are ignored.
func newMembership(kind, concept, label string) *Entity {
	t := NewType(concept)
	if t.Label == nil {
		t.Label = NewLabel(label)
	}
	g := NewGroup("")
	g.Label = NewLabel(label)
	g.ClassifiedAs = []*Entity{NewType(kind), t}
	return g
}

// NewBiography returns a biography statement with the given text
func NewBiography(text string) *Entity {
	lo := newEntity(ClassLinguisticObject, "")
	lo.Content = NewLabel(text)
	lo.ClassifiedAs = []*Entity{NewType(TypeBiography), NewType(TypeBriefText)}
	return lo
}

// NewDescription returns a description statement
func NewDescription(id string, content *Label) *Entity {
	lo := newEntity(ClassLinguisticObject, id)
	lo.Content = content
	lo.ClassifiedAs = []*Entity{NewType(TypeDescription), NewType(TypeBriefText)}
	return lo
}

// NewWebPage returns a web page reference
func NewWebPage(id string) *Entity {
	d := newEntity(ClassDigitalObject, id)
	d.ClassifiedAs = []*Entity{NewType(TypeWebPage)}
	return d
}

// NewInformationObject returns a cited source or a part of one
func NewInformationObject(id string) *Entity {
	return newEntity(ClassInformationObject, id)
}

// NewCreation returns an empty creation event
func NewCreation() *Entity {
	return newEntity(ClassCreation, "")
}

// Classify adds a classification unless one with the same IRI is present
func (e *Entity) Classify(t *Entity) {
	for _, c := range e.ClassifiedAs {
		if c.ID == t.ID {
			return
		}
	}
	e.ClassifiedAs = append(e.ClassifiedAs, t)
}

// HasClass reports whether the entity is classified as the given IRI
func (e *Entity) HasClass(id string) bool {
	for _, c := range e.ClassifiedAs {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Names returns the appellations identifying the entity
func (e *Entity) Names() []*Entity {
	var out []*Entity
	for _, n := range e.IdentifiedBy {
		if n.Type == ClassName {
			out = append(out, n)
		}
	}
	return out
}

// PrimaryNames returns the appellations classified as primary names
func (e *Entity) PrimaryNames() []*Entity {
	var out []*Entity
	for _, n := range e.Names() {
		if n.HasClass(TypePrimaryName) {
			out = append(out, n)
		}
	}
	return out
}
