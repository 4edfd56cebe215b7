package buffermanager

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestEvictionQueueOrdering(t *testing.T) {
	q := newEvictionQueue()

	_, ok := q.dequeue()
	require.False(t, ok)

	handle := &BlockHandle{}
	for epoch := uint64(1); epoch <= 3; epoch++ {
		q.enqueue(evictionCandidate{handle: handle, evictionEpoch: epoch})
	}
	for epoch := uint64(1); epoch <= 3; epoch++ {
		candidate, ok := q.dequeue()
		require.True(t, ok)
		require.Same(t, handle, candidate.handle)
		require.Equal(t, epoch, candidate.evictionEpoch)
	}

	_, ok = q.dequeue()
	require.False(t, ok)
}

func TestEvictionQueueConcurrent(t *testing.T) {
	q := newEvictionQueue()
	handle := &BlockHandle{}

	const producersCount = 4
	const candidatesPerProducer = 1000

	// Concurrent producers enqueue candidates with distinct epochs,
	// while concurrent consumers drain them. Every candidate must be
	// dequeued exactly once.
	var lock sync.Mutex
	seen := map[uint64]bool{}

	var group errgroup.Group
	for i := 0; i < producersCount; i++ {
		group.Go(func() error {
			for j := 0; j < candidatesPerProducer; j++ {
				q.enqueue(evictionCandidate{
					handle:        handle,
					evictionEpoch: uint64(i*candidatesPerProducer + j),
				})
			}
			return nil
		})
	}
	for i := 0; i < producersCount; i++ {
		group.Go(func() error {
			for {
				lock.Lock()
				done := len(seen) == producersCount*candidatesPerProducer
				lock.Unlock()
				if done {
					return nil
				}
				candidate, ok := q.dequeue()
				if !ok {
					runtime.Gosched()
					continue
				}
				lock.Lock()
				duplicate := seen[candidate.evictionEpoch]
				seen[candidate.evictionEpoch] = true
				lock.Unlock()
				if duplicate {
					return fmt.Errorf("candidate with epoch %d was dequeued twice", candidate.evictionEpoch)
				}
			}
		})
	}
	require.NoError(t, group.Wait())

	require.Len(t, seen, producersCount*candidatesPerProducer)
	_, ok := q.dequeue()
	require.False(t, ok)
}
