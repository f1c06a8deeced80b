package model

import (
	"fmt"
	"sort"
)

// Record is a compacted JSON-LD node describing one vocabulary concept.
//
// Compaction collapses single-element arrays, so any property may hold a
// scalar, an object or a list. The accessors below always hand back ordered
// sequences so mapping code never has to check which shape it got.
type Record map[string]any

// ID returns the node identifier, usually in prefixed form (e.g. "ulan:500115493")
func (r Record) ID() string {
	return IRI(r["id"])
}

// Types returns the node's type tags
func (r Record) Types() []string {
	return r.Strings("type")
}

// HasType reports whether any of the given tags is among the node's types
func (r Record) HasType(tags ...string) bool {
	for _, t := range r.Types() {
		for _, tag := range tags {
			if t == tag {
				return true
			}
		}
	}
	return false
}

// Has reports whether the property is present
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Seq returns the property as an ordered sequence (empty, singleton or many)
func (r Record) Seq(key string) []any {
	return Seq(r[key])
}

// Strings returns the IRI or string value of every element of the property
func (r Record) Strings(key string) []string {
	var out []string
	for _, v := range r.Seq(key) {
		if s := IRI(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IRI returns the first IRI value of the property
func (r Record) IRI(key string) string {
	return IRI(r[key])
}

// Literal returns the first literal value of the property
func (r Record) Literal(key string) string {
	return Literal(r[key])
}

// Record returns the first embedded object of the property, or nil
func (r Record) Record(key string) Record {
	recs := r.Records(key)
	if len(recs) == 0 {
		return nil
	}
	return recs[0]
}

// Records returns every embedded object of the property
func (r Record) Records(key string) []Record {
	var out []Record
	for _, v := range r.Seq(key) {
		if rec, ok := AsRecord(v); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Keys returns the property names in sorted order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Nodes returns the members of "@graph" when present, otherwise the record itself
func (r Record) Nodes() []Record {
	if r.Has("@graph") {
		return r.Records("@graph")
	}
	return []Record{r}
}

// Seq normalizes a JSON-LD value to a sequence
func Seq(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []Record:
		out := make([]any, len(t))
		for i, rec := range t {
			out[i] = rec
		}
		return out
	default:
		return []any{v}
	}
}

// AsRecord converts a decoded JSON object to a Record
func AsRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	default:
		return nil, false
	}
}

// IRI extracts an identifier from a string or a node reference ({"id": ...})
func IRI(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			return IRI(t[0])
		}
	default:
		if rec, ok := AsRecord(v); ok {
			if id, ok := rec["id"].(string); ok {
				return id
			}
			if id, ok := rec["@id"].(string); ok {
				return id
			}
		}
	}
	return ""
}

// Literal extracts the lexical form of a plain or typed/language-tagged literal
func Literal(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		if len(t) > 0 {
			return Literal(t[0])
		}
		return ""
	case float64, bool, int:
		return fmt.Sprint(t)
	default:
		if rec, ok := AsRecord(v); ok {
			if val, ok := rec["@value"]; ok {
				return Literal(val)
			}
		}
	}
	return ""
}

// Language returns the language tag of a literal, or ""
func Language(v any) string {
	if rec, ok := AsRecord(v); ok {
		if lang, ok := rec["@language"].(string); ok {
			return lang
		}
	}
	return ""
}
