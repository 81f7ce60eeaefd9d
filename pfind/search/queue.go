package search

import (
	"context"
	"sync"

	assert "github.com/ZanzyTHEbar/assert-lib"
)

// Queue is the multi-producer/multi-consumer buffer of pending
// WorkItems that feeds the traversal workers. Get blocks until an item
// is available or the queue stalls: every worker is simultaneously
// parked in Get with both buffers empty. Since every producer is also a
// worker, a stall proves no item can ever be produced again, so the
// queue declares itself finished and releases all waiters.
//
// The buffer is split in two. Producers append to the write side under
// its own lock and never touch the read side, so Put and Extend never
// contend with parked consumers. A consumer that finds the read buffer
// empty while all workers are waiting drains the write buffer into the
// read buffer under both locks; only when the write buffer is empty too
// is the stall real.
//
// Item order is not meaningful: the buffers are multisets, and the only
// delivery guarantees are exactly-once and completeness.
type Queue struct {
	handler *assert.AssertHandler

	writeMu  sync.Mutex
	writeBuf []WorkItem

	readMu     sync.Mutex
	workChange *sync.Cond // wakes consumers after a swap or a stall
	readBuf    []WorkItem
	waiting    int
	workers    int
	finished   bool
}

// NewQueue creates a queue sized for the given fixed worker count. The
// worker count feeds the stall arithmetic and must match the number of
// goroutines that will consume from the queue.
func NewQueue(workers int, handler *assert.AssertHandler) *Queue {
	q := &Queue{
		workers: workers,
		handler: handler,
	}
	q.workChange = sync.NewCond(&q.readMu)
	return q
}

// Put enqueues a single item. See Extend.
func (q *Queue) Put(item WorkItem) {
	q.Extend([]WorkItem{item})
}

// Extend enqueues a batch of items under one lock acquisition. It never
// blocks on consumer activity. Calling it after the queue has declared
// quiescence is a programming error: only active workers produce, and a
// worker stops producing once Get has returned no-more-work to it.
func (q *Queue) Extend(items []WorkItem) {
	q.writeMu.Lock()
	defer q.writeMu.Unlock()
	q.handler.Assert(context.TODO(), !q.finished, "work enqueued after quiescence")
	q.writeBuf = append(q.writeBuf, items...)
}

// Get returns the next WorkItem, blocking until one is available. The
// second return is false exactly once per worker, when the queue has
// stalled and the search is finished. The worker that detects the stall
// wakes every other parked worker so each of them observes termination
// instead of deadlocking on a residual single wake.
func (q *Queue) Get() (WorkItem, bool) {
	q.readMu.Lock()
	defer q.readMu.Unlock()

	q.waiting++
	for {
		if q.finished {
			return WorkItem{}, false
		}

		if n := len(q.readBuf); n > 0 {
			q.waiting--
			item := q.readBuf[n-1]
			q.readBuf = q.readBuf[:n-1]
			return item, true
		}

		if q.waiting >= q.workers {
			q.writeMu.Lock()
			if len(q.writeBuf) == 0 {
				// True stall: both buffers empty, nobody left to produce.
				q.handler.Assert(context.TODO(), !q.finished, "quiescence declared twice")
				q.finished = true
				q.writeMu.Unlock()
				q.workChange.Broadcast()
				return WorkItem{}, false
			}
			q.readBuf = append(q.readBuf, q.writeBuf...)
			q.writeBuf = q.writeBuf[:0]
			q.writeMu.Unlock()
			// Other waiters may now find work; re-check without sleeping.
			q.workChange.Broadcast()
			continue
		}

		q.workChange.Wait()
	}
}

// workerLost removes a dead worker from the stall arithmetic so the
// surviving workers can still reach quiescence instead of waiting for a
// waiter that will never arrive.
func (q *Queue) workerLost() {
	q.readMu.Lock()
	q.workers--
	q.readMu.Unlock()
	q.workChange.Broadcast()
}

// Finished reports whether the queue has declared quiescence
func (q *Queue) Finished() bool {
	q.readMu.Lock()
	defer q.readMu.Unlock()
	return q.finished
}
