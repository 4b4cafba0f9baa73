package service

import "errors"

// Typed failure kinds surfaced to handlers. Services wrap these with context
// via fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrInvalidInput covers schema and range violations on items, payments
	// and request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the entity is absent or belongs to another tenant;
	// the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness rule was violated (duplicate invoice
	// number within a tenant).
	ErrConflict = errors.New("conflict")
)
