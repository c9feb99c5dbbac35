// Package workpool bounds the number of concurrent blocking backend calls.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool hands out a fixed number of slots for blocking I/O. A nil *Pool runs
// every call immediately.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// New creates a pool with n slots. n <= 0 uses GOMAXPROCS.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{size: int64(n), sem: semaphore.NewWeighted(int64(n))}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return int(p.size)
}

// Do waits for a free slot and runs fn in it. Cancellation of ctx neither
// aborts the wait nor reaches fn: once submitted, a call runs to completion.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = context.WithoutCancel(ctx)
	if p == nil {
		return fn(ctx)
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err //nolint:wrapcheck // unreachable without cancellation
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

// Value runs fn in a slot and returns its result.
func Value[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
