package vocab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/ulancrm/internal/model"
)

// MinIdentifierLength is the shortest identifier worth resolving
const MinIdentifierLength = 5

// Resolver expands prefixed vocabulary identifiers ("aat:300025103") to full IRIs
type Resolver struct {
	rules []prefixRule
}

type prefixRule struct {
	prefix    string // alias including the colon
	namespace string
}

// NewResolver creates a resolver from an alias → namespace table
func NewResolver(table map[string]string) *Resolver {
	rules := make([]prefixRule, 0, len(table))
	for alias, ns := range table {
		rules = append(rules, prefixRule{prefix: alias + ":", namespace: ns})
	}

	// Longest alias first so overlapping aliases resolve deterministically
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].prefix) != len(rules[j].prefix) {
			return len(rules[i].prefix) > len(rules[j].prefix)
		}
		return rules[i].prefix < rules[j].prefix
	})

	return &Resolver{rules: rules}
}

// Expand rewrites a recognized leading prefix to its namespace. Anything
// else is returned unchanged.
func (r *Resolver) Expand(id string) string {
	for _, rule := range r.rules {
		if strings.HasPrefix(id, rule.prefix) {
			return rule.namespace + id[len(rule.prefix):]
		}
	}
	return id
}

// Validate rejects identifiers that are too short, or that smuggle a second
// absolute URI in after expansion.
func (r *Resolver) Validate(id string) error {
	if len(id) < MinIdentifierLength {
		return fmt.Errorf("%w: %q is too short", model.ErrInvalidIdentifier, id)
	}

	expanded := r.Expand(id)
	rest := expanded[2:]
	if strings.Contains(rest, "http://") || strings.Contains(rest, "https://") {
		return fmt.Errorf("%w: %q embeds an absolute URI", model.ErrInvalidIdentifier, id)
	}
	return nil
}

// Resolve validates and expands an identifier
func (r *Resolver) Resolve(id string) (string, error) {
	if err := r.Validate(id); err != nil {
		return "", err
	}
	return r.Expand(id), nil
}
