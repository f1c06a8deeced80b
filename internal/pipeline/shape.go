package pipeline

import (
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/ppiankov/ulancrm/internal/vocab"
)

// Shaper turns a decoded graph into a compacted JSON-LD document, framing it
// around the concept node first when frame is set.
type Shaper interface {
	Shape(g *Graph, frame bool) (map[string]any, error)
}

// LDShaper shapes graphs with the json-gold processor
type LDShaper struct {
	ctx  *vocab.Context
	proc *ld.JsonLdProcessor
}

// NewLDShaper creates a shaper compacting against ctx
func NewLDShaper(ctx *vocab.Context) *LDShaper {
	return &LDShaper{ctx: ctx, proc: ld.NewJsonLdProcessor()}
}

// Shape converts N-Triples to JSON-LD, optionally frames it, then compacts
func (s *LDShaper) Shape(g *Graph, frame bool) (map[string]any, error) {
	rdfOpts := ld.NewJsonLdOptions("")
	rdfOpts.Format = "application/n-quads"

	doc, err := s.proc.FromRDF(g.NTriples, rdfOpts)
	if err != nil {
		return nil, fmt.Errorf("from rdf: %w", err)
	}

	if frame {
		framed, err := s.proc.Frame(doc, s.ctx.Frame(), ld.NewJsonLdOptions(""))
		if err != nil {
			return nil, fmt.Errorf("frame: %w", err)
		}
		doc = framed
	}

	compacted, err := s.proc.Compact(doc, s.ctx.Document(), ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, fmt.Errorf("compact: %w", err)
	}
	return compacted, nil
}
