// Package app wires the trend server runtime: config, logging, database
// pool, worker pool, and HTTP routes.
//
// It is intentionally small and deterministic so that startup failures are
// loud and the wiring stays readable.
package app
