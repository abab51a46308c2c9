package lspclient

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TaskPool bounds a family of background tasks to a fixed concurrency so
// slow or numerous jobs (directory listings, file metadata probes, §4.8)
// never pile up unboundedly ahead of the main loop's other work. No code in
// this module constructs one: internal/dialog bounds its shortcut probes
// with its own semaphore.
type TaskPool struct {
	sem *semaphore.Weighted
	g   *errgroup.Group
}

// NewTaskPool builds a pool that runs at most concurrency tasks at once.
func NewTaskPool(concurrency int64) *TaskPool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &TaskPool{sem: semaphore.NewWeighted(concurrency), g: &errgroup.Group{}}
}

// Go blocks until a slot is free (or ctx is done) then runs fn in the
// background; errors surface from Wait.
func (p *TaskPool) Go(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.g.Go(func() error {
		defer p.sem.Release(1)
		return fn()
	})
	return nil
}

// Wait blocks until every task submitted so far has finished, returning
// the first error (if any) — used on shutdown to let in-flight listings
// and server spawns drain before the process exits.
func (p *TaskPool) Wait() error { return p.g.Wait() }
