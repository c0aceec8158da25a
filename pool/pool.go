// Package pool rents out a bounded number of fd.Session values so a
// depsolver.Solve call (and the repeated re-encodes a culprit search does)
// never runs more finite-domain searches concurrently than the caller has
// configured workers for.
package pool

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sdboyer/constext"
	"golang.org/x/sync/semaphore"

	"github.com/chef/depsolver/fd"
)

// Pool hands out fd.Session values for the duration of one solve and takes
// them back afterward, recycling or retiring them based on the caller's
// Disposition.
type Pool interface {
	// Take blocks until a session is available or ctx is done. The
	// returned context should be used for the session's own Solve call: it
	// is canceled when either ctx is done or the pool itself is closed.
	Take(ctx context.Context) (fd.Session, context.Context, error)

	// Return gives a session back to the pool. A Fail disposition retires
	// the session instead of recycling it, so a session that may be left
	// in a bad state after a timeout is never handed out again.
	Return(s fd.Session, disposition fd.Disposition)

	// Close cancels the context returned by every Take, which interrupts
	// a Solve running on it. A Take still waiting for a free slot is not
	// interrupted by Close; only its own ctx ends that wait. Sessions
	// already taken are not forcibly reclaimed.
	Close()
}

// NewFactory builds a new fd.Session for the pool to hand out. Every
// caller in this module uses fd.NewBacktracking, but the pool itself
// doesn't know that -- it just needs a source of fresh sessions to
// replace ones retired with Fail.
type NewFactory func() fd.Session

// semPool is the reference Pool: a fixed-size free list guarded by a
// weighted semaphore, following the same bounded-worker shape as a
// connection pool -- Take acquires a semaphore slot and pops (or lazily
// creates) a session; Return pushes it back (or, on Fail, just releases
// the slot without returning the session to the list).
type semPool struct {
	sem     *semaphore.Weighted
	new     NewFactory
	free    chan fd.Session
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New returns a Pool that allows at most workers concurrent sessions, all
// created lazily via newSession. A workers count of zero or less is
// rejected -- depsolver.Solve surfaces that as a no-workers-configured
// error rather than deadlocking forever on Take.
func New(workers int, newSession NewFactory) (Pool, error) {
	if workers <= 0 {
		return nil, errors.Errorf("pool: workers must be positive, got %d", workers)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &semPool{
		sem:     semaphore.NewWeighted(int64(workers)),
		new:     newSession,
		free:    make(chan fd.Session, workers),
		baseCtx: ctx,
		cancel:  cancel,
	}, nil
}

func (p *semPool) Take(ctx context.Context) (fd.Session, context.Context, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}

	var s fd.Session
	select {
	case s = <-p.free:
	default:
		s = p.new()
	}

	cctx, cancel := constext.Cons(ctx, p.baseCtx)
	// Release the Cons goroutine's resources once cctx is done, without
	// requiring Take's callers to separately track and call cancel.
	go func() {
		<-cctx.Done()
		cancel()
	}()
	return s, cctx, nil
}

func (p *semPool) Return(s fd.Session, disposition fd.Disposition) {
	defer p.sem.Release(1)
	if disposition == fd.Fail {
		return
	}
	select {
	case p.free <- s:
	default:
		// free list is full (shouldn't happen at capacity == workers, but
		// don't block Return if it does)
	}
}

func (p *semPool) Close() {
	p.cancel()
}
