package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knakk/rdf"
)

// ErrEmptyGraph is returned for documents that decode to no triples
var ErrEmptyGraph = errors.New("document contains no triples")

// Graph is a decoded document, serialized as N-Triples for the JSON-LD processor
type Graph struct {
	Triples  int
	NTriples string
}

// GraphDecoder parses raw document text into a graph
type GraphDecoder interface {
	Decode(raw string) (*Graph, error)
}

// TurtleDecoder parses Turtle documents
type TurtleDecoder struct{}

// Decode parses Turtle text. Malformed and empty documents are errors.
func (TurtleDecoder) Decode(raw string) (*Graph, error) {
	triples, err := rdf.NewTripleDecoder(strings.NewReader(raw), rdf.Turtle).DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("decode turtle: %w", err)
	}
	if len(triples) == 0 {
		return nil, ErrEmptyGraph
	}

	var b strings.Builder
	for _, t := range triples {
		line := strings.TrimSpace(t.Serialize(rdf.NTriples))
		if !strings.HasSuffix(line, ".") {
			line += " ."
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return &Graph{Triples: len(triples), NTriples: b.String()}, nil
}
