package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/ulancrm/internal/crm"
)

func birth(year, place string) *crm.Entity {
	b := crm.NewBirth()
	b.Timespan = crm.NewTimeSpan(year, year)
	if place != "" {
		b.TookPlaceAt = []*crm.Entity{crm.NewPlace(place, "Leiden")}
	}
	return b
}

func TestExists_IgnoresIdentifiers(t *testing.T) {
	d := New()

	existing := birth("1606", "http://vocab.getty.edu/tgn/7006809-place")
	candidate := birth("1606", "http://vocab.getty.edu/tgn/7006809-place")
	assert.NotEqual(t, existing.ID, candidate.ID)
	assert.NotEqual(t, existing.Timespan.ID, candidate.Timespan.ID)

	assert.Same(t, existing, d.Exists(candidate, []*crm.Entity{existing}))
}

func TestExists_DifferentContent(t *testing.T) {
	d := New()
	existing := []*crm.Entity{birth("1606", "http://vocab.getty.edu/tgn/7006809-place")}

	assert.Nil(t, d.Exists(birth("1607", "http://vocab.getty.edu/tgn/7006809-place"), existing))

	other := birth("1606", "")
	other.TookPlaceAt = []*crm.Entity{crm.NewPlace("http://vocab.getty.edu/tgn/7006952-place", "Amsterdam")}
	assert.Nil(t, d.Exists(other, existing))

	assert.Nil(t, d.Exists(birth("1606", ""), existing), "missing place is a difference")
}

func TestExists_VocabularyIdentifiersWithoutLabels(t *testing.T) {
	d := New()

	// label lookups failed: only the IRIs tell the places apart
	leiden := crm.NewBirth()
	leiden.TookPlaceAt = []*crm.Entity{crm.NewPlace("http://vocab.getty.edu/tgn/7006809-place", "")}
	amsterdam := crm.NewBirth()
	amsterdam.TookPlaceAt = []*crm.Entity{crm.NewPlace("http://vocab.getty.edu/tgn/7006952-place", "")}
	assert.Nil(t, d.Exists(amsterdam, []*crm.Entity{leiden}))

	again := crm.NewBirth()
	again.TookPlaceAt = []*crm.Entity{crm.NewPlace("http://vocab.getty.edu/tgn/7006809-place", "")}
	assert.Same(t, leiden, d.Exists(again, []*crm.Entity{leiden}))

	male := crm.NewGender("http://vocab.getty.edu/aat/300189559", "")
	female := crm.NewGender("http://vocab.getty.edu/aat/300189557", "")
	assert.False(t, d.Equal(male, female))
	assert.True(t, d.Equal(male, crm.NewGender("http://vocab.getty.edu/aat/300189559", "")))
}

func TestExists_MintedAgainstVocabularyIdentifier(t *testing.T) {
	d := New()
	minted := crm.NewPlace("", "Leiden")
	vocab := crm.NewPlace("http://vocab.getty.edu/tgn/7006809-place", "Leiden")
	assert.False(t, d.Equal(minted, vocab))
	assert.True(t, d.Equal(minted, crm.NewPlace(crm.NewID(), "Leiden")))
}

func TestDiff_ShowsIdentifiers(t *testing.T) {
	d := New()
	a := birth("1606", "")
	b := birth("1606", "")
	assert.True(t, d.Equal(a, b))
	assert.Contains(t, d.Diff(a, b), a.ID)
}

func TestExists_FirstMatch(t *testing.T) {
	d := New()
	a := birth("1900", "")
	b := birth("1900", "")
	assert.Same(t, a, d.Exists(birth("1900", ""), []*crm.Entity{nil, a, b}))
}

func TestExists_NilAndEmpty(t *testing.T) {
	d := New()
	assert.Nil(t, d.Exists(nil, []*crm.Entity{birth("1900", "")}))
	assert.Nil(t, d.Exists(birth("1900", ""), nil))

	// nil and empty slices are the same content
	a := crm.NewGroup("")
	a.MemberOf = []*crm.Entity{}
	b := crm.NewGroup("")
	assert.True(t, d.Equal(a, b))
}

func TestWithIgnoredFields(t *testing.T) {
	plain := New()
	bio := WithIgnoredFields("CreatedBy")

	existing := crm.NewBiography("Dutch painter and etcher.")
	candidate := crm.NewBiography("Dutch painter and etcher.")
	candidate.CreatedBy = crm.NewCreation()
	candidate.CreatedBy.CarriedOutBy = []*crm.Entity{crm.NewActor("http://vocab.getty.edu/ulan/500000000")}

	assert.Nil(t, plain.Exists(candidate, []*crm.Entity{existing}))
	assert.Same(t, existing, bio.Exists(candidate, []*crm.Entity{existing}))

	assert.Nil(t, bio.Exists(crm.NewBiography("Flemish painter."), []*crm.Entity{existing}))
	assert.NotEmpty(t, plain.Diff(candidate, existing))
}
