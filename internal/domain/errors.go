package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; repositories return them instead of driver-specific errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateSlug = errors.New("slug already in use")
)
