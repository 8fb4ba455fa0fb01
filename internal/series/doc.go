// Package series persists the daily measurement series and derives its
// smoothed view.
//
// One row exists per calendar date; writes are idempotent upserts, so a
// second write for the same date overwrites the value. The moving average is
// recomputed from the raw series on every read and never stored, which keeps
// it consistent with the latest writes by construction.
package series
