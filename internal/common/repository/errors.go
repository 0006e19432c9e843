package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound indicates the requested document was not found
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey indicates a unique constraint violation
	ErrDuplicateKey = errors.New("duplicate key")
)
