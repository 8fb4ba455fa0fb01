package token

import "errors"

var (
	// ErrInvalidToken is returned for malformed, tampered or expired tokens.
	// Expiration is deliberately indistinguishable from tampering.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongCredentials is returned when a well-signed token carries a
	// foreign issuer tag. Externally both errors surface as a plain 401.
	ErrWrongCredentials = errors.New("wrong credentials")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid token config")
)
