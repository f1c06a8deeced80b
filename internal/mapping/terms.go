package mapping

import (
	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/model"
)

// Term markers set by the vocabulary
const (
	termKindPseudonym  = "http://vocab.getty.edu/term/kind/Pseudonym"
	termFlagVernacular = "http://vocab.getty.edu/term/flag/Vernacular"
	termDisplayIndex   = "http://vocab.getty.edu/term/display/Indexing"
)

// sourceKeys are the citation properties of terms and notes
var sourceKeys = []string{"sourcePref", "sourceNonPref", "source"}

// names builds one primary name from the preferred terms and one name per
// alternate term.
func (b *builder) names() {
	primary := crm.NewPrimaryName()
	for _, term := range b.rec.Records("prefLabelObj") {
		b.term(primary, term)
	}
	b.subject.IdentifiedBy = append(b.subject.IdentifiedBy, primary)

	for _, term := range b.rec.Records("altLabelObj") {
		name := crm.NewName()
		b.term(name, term)
		b.subject.IdentifiedBy = append(b.subject.IdentifiedBy, name)
	}
}

// term copies a term's literal and classification markers onto a name
func (b *builder) term(name *crm.Entity, term model.Record) {
	v := term["literalValue"]
	if text := model.Literal(v); text != "" {
		if name.Content == nil {
			name.Content = &crm.Label{}
		}
		name.Content.Set(model.Language(v), text)
	}

	if b.expand(term.IRI("termKind")) == termKindPseudonym {
		name.Classify(crm.NewType(crm.TypePseudonym))
	}
	if b.expand(term.IRI("flag")) == termFlagVernacular {
		name.Classify(crm.NewType(crm.TypeVernacular))
	}
	if b.expand(term.IRI("display")) == termDisplayIndex {
		name.Classify(crm.NewType(crm.TypeIndexing))
	}

	if b.sources {
		b.citeSources(name, term)
	}
}

// agentTypes makes the subject a member of a group per agent type, labelled
// in every language the type concept offers.
func (b *builder) agentTypes() {
	for _, at := range b.rec.Strings("agentType") {
		iri := b.expand(at)
		group := crm.NewGroup("")
		group.Classify(crm.NewType(iri))
		if rec, ok := b.fetch(kindAgentType, at, true); ok {
			group.Label = prefLabels(rec)
		}
		b.subject.MemberOf = append(b.subject.MemberOf, group)
	}
}

// scopeNotes attaches scope notes as description statements
func (b *builder) scopeNotes() {
	for _, note := range b.rec.Records("scopeNote") {
		content := &crm.Label{}
		for _, v := range note.Seq("value") {
			if text := model.Literal(v); text != "" {
				content.Set(model.Language(v), text)
			}
		}
		if content.Empty() {
			content = nil
		}

		var id string
		if note.ID() != "" {
			id = b.expand(note.ID())
		}
		desc := crm.NewDescription(id, content)
		if b.sources {
			b.citeSources(desc, note)
		}
		b.subject.ReferredToBy = append(b.subject.ReferredToBy, desc)
	}
}

// citeSources attaches the sources cited by a term or note. A citation of a
// part of a work becomes an information object composed from the full work.
func (b *builder) citeSources(target *crm.Entity, cited model.Record) {
	seen := map[string]bool{}
	for _, key := range sourceKeys {
		for _, v := range cited.Seq(key) {
			var full *crm.Entity

			if part, ok := model.AsRecord(v); ok && part.Has("partOf") {
				iri := b.expand(part.ID())
				if iri == "" || seen[iri] {
					continue
				}
				seen[iri] = true

				obj := crm.NewInformationObject(iri)
				obj.Label = crm.NewLabel(model.Literal(part["locator"]))
				full = crm.NewInformationObject(b.expand(part.IRI("partOf")))
				obj.ComposedFrom = []*crm.Entity{full}
				target.ComposedFrom = append(target.ComposedFrom, obj)
			} else {
				iri := b.expand(model.IRI(v))
				if iri == "" || seen[iri] {
					continue
				}
				seen[iri] = true

				full = crm.NewInformationObject(iri)
				target.ComposedFrom = append(target.ComposedFrom, full)
			}

			b.describeSource(full)
		}
	}
}

// describeSource reads a work's short title and title from its own node
func (b *builder) describeSource(full *crm.Entity) {
	rec, ok := b.fetch(kindSource, full.ID, false)
	if !ok {
		return
	}
	for _, node := range rec.Nodes() {
		if b.expand(node.ID()) != full.ID {
			continue
		}
		if short := node.Literal("shortTitle"); short != "" {
			full.Label = crm.NewLabel(short)
		}
		if title := node.Literal("title"); title != "" {
			full.Description = crm.NewLabel(title)
		}
		return
	}
}
