package identity

import "errors"

var (
	// ErrNotFound is returned when no credential exists for an identifier.
	// It must never leak past Verifier.Verify to a client-facing caller.
	ErrNotFound = errors.New("credential not found")

	// ErrInvalidInput is returned for empty or malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
)
