package store

import "errors"

// Sentinel errors surfaced by the stores. Handlers translate these into
// HTTP statuses; anything else propagates as a 500.
var (
	// ErrInvalidInput means the caller supplied an unusable booking payload
	// (missing or unparseable dates).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the requested row (or the referenced user) does not exist.
	ErrNotFound = errors.New("not found")
)
