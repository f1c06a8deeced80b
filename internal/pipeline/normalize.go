package pipeline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ulancrm/internal/model"
)

// adminKeys are bookkeeping properties with no place in the mapped output
var adminKeys = map[string]bool{
	"changeNote":      true,
	"ccLicense":       true,
	"created":         true,
	"displayOrder":    true,
	"identifier":      true,
	"generatedBy":     true,
	"license":         true,
	"mappingRelation": true,
	"modified":        true,
	"parentStr":       true,
	"parentStrAbbr":   true,
	"scheme":          true,
	"note":            true,
}

// nestedContainers are cleaned one level down as well
var nestedContainers = []string{"altLabelObj", "prefLabelObj", "scopeNote", "conceptFor"}

// Normalizer turns raw document text into a clean record
type Normalizer struct {
	decoder GraphDecoder
	shaper  Shaper
}

// NewNormalizer creates a normalizer from a decoder and a shaper
func NewNormalizer(decoder GraphDecoder, shaper Shaper) *Normalizer {
	return &Normalizer{decoder: decoder, shaper: shaper}
}

// Normalize decodes and shapes raw text. Framed records are also cleaned.
func (n *Normalizer) Normalize(raw string, frame bool) (model.Record, error) {
	g, err := n.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	doc, err := n.shaper.Shape(g, frame)
	if err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}

	rec := model.Record(doc)
	delete(rec, "@context")

	// Framing a single concept yields a one-element @graph
	if frame {
		if nodes := rec.Records("@graph"); len(nodes) == 1 && len(rec) == 1 {
			rec = nodes[0]
		}
		Clean(rec)
	}

	if len(rec) == 0 {
		return nil, ErrEmptyGraph
	}
	return rec, nil
}

// Clean removes administrative properties and broader* links from the record
// and from its label, scope note and focus containers. It edits in place and
// returns rec for chaining.
func Clean(rec model.Record) model.Record {
	cleanNode(rec)
	for _, key := range nestedContainers {
		for _, nested := range rec.Records(key) {
			cleanNode(nested)
		}
	}
	return rec
}

func cleanNode(rec model.Record) {
	for key := range rec {
		if adminKeys[key] || strings.HasPrefix(key, "broader") {
			delete(rec, key)
		}
	}
}
