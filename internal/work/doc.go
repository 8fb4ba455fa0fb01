// Package work provides a small bounded worker pool for CPU-heavy jobs.
//
// Password hashing, token signing and series smoothing are dispatched here so
// they never occupy a goroutine that is serving an HTTP request. Callers block
// on the result but remain cancellable through their request context.
package work
