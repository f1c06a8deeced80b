// Package mapping re-models normalized ULAN records as Linked Art entity graphs.
package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/dedupe"
	"github.com/ppiankov/ulancrm/internal/metric"
	"github.com/ppiankov/ulancrm/internal/model"
	"github.com/ppiankov/ulancrm/internal/vocab"
)

// Type tags marking a person concept; anything else maps to a Group
var personTypes = []string{"gvp:PersonConcept", "http://vocab.getty.edu/ontology#PersonConcept"}

// relationPrefix starts the keys of ULAN-specific associative relations
const relationPrefix = "gvp:ulan"

// Lookup fetches referenced concepts (places, genders, agent types,
// nationalities, sources) while a record is being mapped.
type Lookup interface {
	Fetch(ctx context.Context, id string, frame bool) (model.Record, error)
}

// Engine maps records to entity graphs. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	lookup    Lookup
	resolver  *vocab.Resolver
	dedupe    *dedupe.Deduper
	bioDedupe *dedupe.Deduper
	sources   bool
	metrics   *metric.Metrics
	logger    *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithSources enables citation processing for names and scope notes
func WithSources(enabled bool) Option {
	return func(e *Engine) { e.sources = enabled }
}

// WithMetrics counts failed secondary lookups
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a mapping engine
func NewEngine(lookup Lookup, resolver *vocab.Resolver, opts ...Option) *Engine {
	e := &Engine{
		lookup:   lookup,
		resolver: resolver,
		dedupe:   dedupe.New(),
		// Contributors are merged onto an existing statement, so they do not
		// count towards equality.
		bioDedupe: dedupe.WithIgnoredFields("CreatedBy"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process builds the entity graph for a framed, cleaned record. Failed
// lookups of referenced concepts only drop the affected labels; the only
// error is a record without an identifier.
func (e *Engine) Process(ctx context.Context, rec model.Record) (*crm.Entity, error) {
	id := rec.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: record has no identifier", model.ErrNotFound)
	}

	b := &builder{
		Engine: e,
		ctx:    ctx,
		rec:    rec,
		self:   e.resolver.Expand(id),
	}
	if rec.HasType(personTypes...) {
		b.class = crm.ClassPerson
		b.subject = crm.NewPerson(b.self)
	} else {
		b.class = crm.ClassGroup
		b.subject = crm.NewGroup(b.self)
	}

	b.names()
	b.agentTypes()
	b.matches()
	b.scopeNotes()
	b.seeAlso()
	b.related()

	if actor := rec.Record("conceptFor"); actor != nil {
		b.events(actor)
		b.nationalities(actor)
		b.biographies(actor)
	}
	return b.subject, nil
}

// builder carries the state of one Process call
type builder struct {
	*Engine
	ctx     context.Context
	rec     model.Record
	self    string
	class   string
	subject *crm.Entity
}

func (b *builder) expand(id string) string {
	return b.resolver.Expand(id)
}

// stub returns a reference node of the subject's own class
func (b *builder) stub(id string) *crm.Entity {
	if b.class == crm.ClassPerson {
		return crm.NewPerson(id)
	}
	return crm.NewGroup(id)
}

// attach adds a statement to a list. A preferred statement replaces a
// structural duplicate in place; a non-preferred one is dropped when a
// duplicate exists.
func (b *builder) attach(list []*crm.Entity, stmt *crm.Entity, pref bool) []*crm.Entity {
	dup := b.dedupe.Exists(stmt, list)
	if dup == nil {
		return append(list, stmt)
	}
	if !pref {
		b.logger.Debug("dropped duplicate statement", "type", stmt.Type, "diff", b.dedupe.Diff(dup, stmt))
		return list
	}
	for i, existing := range list {
		if existing == dup {
			list[i] = stmt
			break
		}
	}
	return list
}

// matches copies exact matches other than self, and close matches not
// already listed as exact.
func (b *builder) matches() {
	seen := map[string]bool{b.self: true}
	for _, m := range b.rec.Strings("exactMatch") {
		iri := b.expand(m)
		if seen[iri] {
			continue
		}
		seen[iri] = true
		b.subject.ExactMatch = append(b.subject.ExactMatch, b.stub(iri))
	}

	for _, m := range b.rec.Strings("closeMatch") {
		iri := b.expand(m)
		if seen[iri] {
			continue
		}
		seen[iri] = true
		b.subject.CloseMatch = append(b.subject.CloseMatch, b.stub(iri))
	}
}

// seeAlso attaches the first see-also link as a web page
func (b *builder) seeAlso() {
	if page := b.rec.IRI("seeAlso"); page != "" {
		b.subject.ReferredToBy = append(b.subject.ReferredToBy, crm.NewWebPage(b.expand(page)))
	}
}

// related links associated agents, skipping those already covered by a
// specific gvp:ulan* relation.
func (b *builder) related() {
	skip := map[string]bool{}
	for _, key := range b.rec.Keys() {
		if strings.HasPrefix(key, relationPrefix) {
			for _, r := range b.rec.Strings(key) {
				skip[b.expand(r)] = true
				b.logger.Debug("specific relation", "relation", key, "target", r)
			}
		}
	}

	for _, r := range b.rec.Strings("related") {
		iri := b.expand(r)
		if skip[iri] {
			continue
		}
		skip[iri] = true
		b.subject.Related = append(b.subject.Related, crm.NewPerson(iri))
	}
}
