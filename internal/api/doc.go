// Package api is the session-gated HTTP access layer.
//
// It exposes login plus the measurement operations. Every measurement
// operation first verifies the caller's session token (cookie or bearer
// header) and aborts before touching any store when verification fails.
// Auth failures are reported as one indistinguishable unauthorized
// condition; storage failures as a generic internal error with the cause
// logged server-side only.
package api
