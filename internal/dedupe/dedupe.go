// Package dedupe decides whether a statement is already attached to a subject
// by comparing content, not identity.
package dedupe

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ppiankov/ulancrm/internal/crm"
)

// IDField holds node identifiers. Minted identifiers differ between otherwise
// equal statements and never count; vocabulary IRIs are compared.
const IDField = "ID"

// Deduper compares entity graphs field by field, skipping ignored fields at any depth
type Deduper struct {
	ignored map[string]bool
	opts    cmp.Options
}

// New creates a deduper ignoring minted identifiers
func New() *Deduper {
	return WithIgnoredFields()
}

// WithIgnoredFields creates a deduper ignoring minted identifiers and the named fields
func WithIgnoredFields(names ...string) *Deduper {
	d := &Deduper{ignored: map[string]bool{}}
	for _, n := range names {
		d.ignored[n] = true
	}

	d.opts = cmp.Options{
		cmp.FilterPath(d.skip, cmp.Ignore()),
		cmp.FilterPath(isID, cmp.Comparer(sameIdentity)),
		cmpopts.EquateEmpty(),
	}
	return d
}

func (d *Deduper) skip(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && d.ignored[sf.Name()]
}

func isID(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && sf.Name() == IDField
}

func sameIdentity(a, b string) bool {
	return a == b || (crm.IsMinted(a) && crm.IsMinted(b))
}

// Equal reports whether two statements have the same content
func (d *Deduper) Equal(a, b *crm.Entity) bool {
	return cmp.Equal(a, b, d.opts)
}

// Exists returns the first member of existing equal to candidate, or nil
func (d *Deduper) Exists(candidate *crm.Entity, existing []*crm.Entity) *crm.Entity {
	if candidate == nil {
		return nil
	}
	for _, e := range existing {
		if e != nil && d.Equal(candidate, e) {
			return e
		}
	}
	return nil
}

// Diff describes how two statements differ, minted identifiers included,
// for debug logging
func (d *Deduper) Diff(a, b *crm.Entity) string {
	return cmp.Diff(a, b, cmpopts.EquateEmpty())
}
