package model

import "errors"

var (
	// ErrInvalidIdentifier is returned before any I/O for malformed identifiers
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNotFound covers unreachable, missing and unparsable upstream records.
	// Callers cannot tell these apart.
	ErrNotFound = errors.New("record not found")

	// ErrSecondaryLookup marks a failed label lookup for a referenced concept
	ErrSecondaryLookup = errors.New("secondary lookup failed")
)

// IsNotFound reports whether err should be shown to clients as a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidIdentifier)
}
