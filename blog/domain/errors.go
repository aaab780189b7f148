package domain

import "errors"

// Error taxonomy shared by the repository, index and service layers.
// Callers match with errors.Is; implementations wrap these with context.
var (
	// ErrNotFound means the resource is absent. Often non-fatal: it
	// triggers the index rebuild path and makes deletes idempotent.
	ErrNotFound = errors.New("not found")

	// ErrConflict means an optimistic-concurrency revision mismatch.
	// The caller must reload and retry or abort, never blind-overwrite.
	ErrConflict = errors.New("revision conflict")

	// ErrTransient covers network failures and 5xx responses from the
	// backing store. Safe to retry at the caller's discretion.
	ErrTransient = errors.New("transient store error")

	// ErrGeneration means the AI writer returned something unusable or
	// was unreachable. Aborts the enclosing publish/update before any
	// destructive write.
	ErrGeneration = errors.New("generation failed")

	// ErrValidation marks missing or oversized input fields, rejected
	// before any I/O happens.
	ErrValidation = errors.New("invalid input")
)
