package errors

import "errors"

var (
	// ErrNotFound is returned by writes that require an existing
	// document (Update, Delete). Read misses are not errors.
	ErrNotFound = errors.New("document not found")

	// ErrUnknownCollection marks an operation against a collection the
	// store was not configured with. A programming error, not a runtime
	// condition.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrVersionConflict is returned by versioned updates when the
	// stored document has moved past the caller's snapshot.
	ErrVersionConflict = errors.New("document version conflict")
)
