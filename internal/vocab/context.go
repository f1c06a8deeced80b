// Package vocab holds the JSON-LD context for the Getty vocabularies and the
// identifier resolver built from its prefix table.
package vocab

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed context.json
var builtinContext []byte

// FrameType is the node type the main record is framed around
const FrameType = "skos:Concept"

// unembedded lists the administrative link properties kept as references
// when framing. Embedding them would pull whole contributor and source
// records into the concept.
var unembedded = []string{
	"contributor",
	"source",
	"changeNote",
	"note",
	"mappingRelation",
	"exactMatch",
	"closeMatch",
}

// Context is the JSON-LD context used to frame and compact fetched records.
// It is loaded once at startup and never mutated afterwards.
type Context struct {
	terms map[string]any
}

// LoadContext reads the context from path, or the built-in one when path is empty
func LoadContext(path string) (*Context, error) {
	if path == "" {
		return ParseContext(builtinContext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	return ParseContext(data)
}

// ParseContext parses a JSON-LD context document ({"@context": {...}})
func ParseContext(data []byte) (*Context, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse context: %w", err)
	}

	terms, ok := doc["@context"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse context: missing @context object")
	}
	return &Context{terms: terms}, nil
}

// Namespace returns the IRI a prefix alias stands for
func (c *Context) Namespace(alias string) (string, bool) {
	ns, ok := c.terms[alias].(string)
	if !ok || ns == "" || ns[0] == '@' {
		return "", false
	}
	return ns, true
}

// Prefixes returns the namespace table for the given aliases
func (c *Context) Prefixes(aliases []string) (map[string]string, error) {
	table := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		ns, ok := c.Namespace(alias)
		if !ok {
			return nil, fmt.Errorf("context has no namespace for prefix %q", alias)
		}
		table[alias] = ns
	}
	return table, nil
}

// Document returns a fresh {"@context": ...} document for compaction
func (c *Context) Document() map[string]any {
	return map[string]any{"@context": c.copyTerms()}
}

// Frame returns a fresh frame document: concepts at the root with the
// administrative link properties left unembedded.
func (c *Context) Frame() map[string]any {
	frame := map[string]any{
		"@context": c.copyTerms(),
		"type":     FrameType,
	}
	for _, prop := range unembedded {
		frame[prop] = map[string]any{"@embed": false}
	}
	return frame
}

// Resolver builds an identifier resolver for the given prefix aliases
func (c *Context) Resolver(aliases []string) (*Resolver, error) {
	table, err := c.Prefixes(aliases)
	if err != nil {
		return nil, err
	}
	return NewResolver(table), nil
}

// copyTerms hands out a shallow copy; the JSON-LD processor may annotate
// documents it is given.
func (c *Context) copyTerms() map[string]any {
	out := make(map[string]any, len(c.terms))
	for k, v := range c.terms {
		out[k] = v
	}
	return out
}
