package buffermanager

import (
	"sync/atomic"
)

// evictionCandidate refers to a handle whose pin count dropped to
// zero, together with the eviction epoch at which that happened. The
// reference is weak: a candidate does not keep the handle alive, and
// the handle may have been repinned or destroyed by the time the
// candidate is dequeued. Consumers detect both through acquire() and
// the epoch snapshot.
type evictionCandidate struct {
	handle        *BlockHandle
	evictionEpoch uint64
}

type evictionQueueNode struct {
	next      atomic.Pointer[evictionQueueNode]
	candidate evictionCandidate
}

// evictionQueue is an unbounded lock-free multi-producer
// multi-consumer queue of eviction candidates, after Michael & Scott.
// Dequeue order approximates insertion order, which is all that
// eviction requires. Stale candidates are not removed here; they are
// filtered by the consumer.
type evictionQueue struct {
	head atomic.Pointer[evictionQueueNode]
	tail atomic.Pointer[evictionQueueNode]
}

func newEvictionQueue() *evictionQueue {
	q := &evictionQueue{}
	dummy := &evictionQueueNode{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

func (q *evictionQueue) enqueue(candidate evictionCandidate) {
	node := &evictionQueueNode{candidate: candidate}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			continue
		}
		if next == nil {
			if tail.next.CompareAndSwap(nil, node) {
				q.tail.CompareAndSwap(tail, node)
				return
			}
		} else {
			// Another producer is mid-insertion; help it
			// along.
			q.tail.CompareAndSwap(tail, next)
		}
	}
}

func (q *evictionQueue) dequeue() (evictionCandidate, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			continue
		}
		if head == tail {
			if next == nil {
				return evictionCandidate{}, false
			}
			q.tail.CompareAndSwap(tail, next)
		} else {
			candidate := next.candidate
			if q.head.CompareAndSwap(head, next) {
				return candidate, true
			}
		}
	}
}
