package search

import (
	"fmt"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

// poolBackend is the push-oriented alternative to the quiescent queue:
// every directory becomes its own task on a bounded goroutine pool, and
// a task that discovers children submits them to the same pool.
// Termination is completion-counting instead of stall detection: the
// outstanding counter is incremented before every submission and
// decremented when a task finishes, and the run is over when it returns
// to zero. Simpler than the queue, but tasks materialize immediately as
// pool entries, so backpressure is weaker.
type poolBackend struct {
	workers int
}

func (b *poolBackend) run(t *traversal, roots []WorkItem) (err error) {
	// The pool re-raises task panics from Wait; surface them as the
	// same fatal error the queue backend reports.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", common.ErrWorkerPanic, r)
		}
	}()

	p := pool.New().WithMaxGoroutines(b.workers)

	var outstanding atomic.Int64
	done := make(chan struct{})

	var submit func(item WorkItem)
	submit = func(item WorkItem) {
		p.Go(func() {
			defer func() {
				if outstanding.Add(-1) == 0 {
					close(done)
				}
			}()
			for _, child := range t.processDirectory(item) {
				// Increment before submit: the counter must never
				// transiently hit zero while a spawn is in flight.
				outstanding.Add(1)
				// Submission is asynchronous because Go blocks while
				// every pool slot is busy; a task must never wedge the
				// pool waiting for its own children to be accepted.
				go submit(child)
			}
		})
	}

	for range roots {
		outstanding.Add(1)
	}
	if len(roots) == 0 {
		close(done)
	}
	for _, root := range roots {
		submit(root)
	}

	<-done
	p.Wait()
	return nil
}
