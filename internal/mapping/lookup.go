package mapping

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/model"
)

// Lookup kinds, used in logs and metrics
const (
	kindPlace       = "place"
	kindGender      = "gender"
	kindAgentType   = "agent_type"
	kindNationality = "nationality"
	kindSource      = "source"
)

// labelKeys are tried in order when reading a concept's label
var labelKeys = []string{"label", "rdfs:label", "prefLabel", "skos:prefLabel"}

// fetch runs a secondary lookup. Failures are logged and reported as a miss.
func (b *builder) fetch(kind, id string, frame bool) (model.Record, bool) {
	rec, err := b.lookup.Fetch(b.ctx, id, frame)
	if err != nil {
		err = fmt.Errorf("%w: %s %s: %w", model.ErrSecondaryLookup, kind, id, err)
		b.logger.Warn("label omitted", "subject", b.self, "kind", kind, "id", id, "error", err)
		b.metrics.LookupFailure(kind)
		return nil, false
	}
	return rec, true
}

// label fetches a concept and returns its display label, or "" on failure
func (b *builder) label(kind, id string, frame bool) string {
	rec, ok := b.fetch(kind, id, frame)
	if !ok {
		return ""
	}
	return b.labelOf(rec, id)
}

// labelOf finds the label of the node for id, falling back to any labelled
// node in the document.
func (b *builder) labelOf(rec model.Record, id string) string {
	want := strings.TrimSuffix(b.expand(id), ".ttl")
	nodes := rec.Nodes()

	for _, node := range nodes {
		if b.expand(node.ID()) == want {
			if l := nodeLabel(node); l != "" {
				return l
			}
		}
	}
	for _, node := range nodes {
		if l := nodeLabel(node); l != "" {
			return l
		}
	}
	return ""
}

// nodeLabel returns the English label of a node, or its first label
func nodeLabel(node model.Record) string {
	for _, key := range labelKeys {
		values := node.Seq(key)
		for _, v := range values {
			if model.Language(v) == "en" {
				return model.Literal(v)
			}
		}
		for _, v := range values {
			if l := model.Literal(v); l != "" {
				return l
			}
		}
	}
	return ""
}

// prefLabels builds a language map from a concept's preferred term objects
func prefLabels(rec model.Record) *crm.Label {
	l := &crm.Label{}
	for _, term := range rec.Records("prefLabelObj") {
		v := term["literalValue"]
		if text := model.Literal(v); text != "" {
			l.Set(model.Language(v), text)
		}
	}
	if l.Empty() {
		if text := nodeLabel(rec); text != "" {
			l.Set("", text)
		}
	}
	if l.Empty() {
		return nil
	}
	return l
}
