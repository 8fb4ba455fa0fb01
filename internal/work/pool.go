package work

import (
	"context"
	"errors"
	"runtime"
)

// ErrClosed is returned when a job is submitted to a closed pool.
var ErrClosed = errors.New("worker pool closed")

type result struct {
	v   any
	err error
}

type job struct {
	fn   func() (any, error)
	done chan result
}

// Pool runs submitted functions on a fixed set of worker goroutines.
// The zero value is not usable; construct with New.
type Pool struct {
	jobs chan job
	stop chan struct{}
}

// New starts a pool with n workers. n <= 0 selects runtime.NumCPU,
// clamped to [1..8] to keep resource usage predictable in containers.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}

	p := &Pool{
		jobs: make(chan job),
		stop: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.stop:
			return
		case j := <-p.jobs:
			v, err := j.fn()
			j.done <- result{v: v, err: err}
		}
	}
}

// Close stops the workers. Jobs already running finish; pending and future
// submissions fail with ErrClosed. Close must be called at most once.
func (p *Pool) Close() {
	close(p.stop)
}

// Do runs fn on a pool worker and waits for its result.
// Both dispatch and the wait for completion honor ctx. A job that already
// started keeps running to completion even if the caller gives up; its
// result is then discarded.
func (p *Pool) Do(ctx context.Context, fn func() (any, error)) (any, error) {
	if p == nil {
		return nil, ErrClosed
	}

	j := job{fn: fn, done: make(chan result, 1)}

	select {
	case p.jobs <- j:
	case <-p.stop:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-j.done:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run submits fn to p and returns its typed result.
func Run[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	v, err := p.Do(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
