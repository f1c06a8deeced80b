package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Store is a byte cache tier for raw upstream documents, keyed by resolved IRI
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
}

// Key derives a filesystem-safe key from a resolved IRI
func Key(iri string) string {
	hash := sha256.Sum256([]byte(iri))
	return "ulancrm-raw-v1-" + hex.EncodeToString(hash[:])
}

// Nop is a Store that never holds anything. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte) error  { return nil }
func (Nop) Delete(string) error       { return nil }
func (Nop) Clear() error              { return nil }
