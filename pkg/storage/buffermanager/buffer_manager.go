package buffermanager

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarndb/tarn-storage/pkg/filesystem"
	"github.com/tarndb/tarn-storage/pkg/storage"
	"github.com/tarndb/tarn-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	bufferManagerPrometheusMetrics sync.Once

	bufferManagerBlocksEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "buffer_manager_blocks_evicted_total",
			Help:      "Number of blocks whose contents were unloaded by the eviction loop",
		})
	bufferManagerEvictionCandidatesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "buffer_manager_eviction_candidates_skipped_total",
			Help:      "Number of dequeued eviction candidates that were discarded as stale",
		},
		[]string{"reason"})
	bufferManagerBuffersSpilled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "buffer_manager_buffers_spilled_total",
			Help:      "Number of transient buffers written to the temporary directory upon eviction",
		})
	bufferManagerBuffersRestored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "buffer_manager_buffers_restored_total",
			Help:      "Number of transient buffers read back from the temporary directory",
		})
)

// BufferManager mediates between on-disk blocks and a bounded
// in-memory working set. Persistent blocks are registered and loaded
// on demand through a BlockManager; transient buffers are allocated
// in-process. Whenever the working set would exceed the configured
// memory limit, unpinned blocks are evicted, spilling transient
// buffers that cannot be recovered otherwise to a temporary directory.
type BufferManager struct {
	blockManager storage.BlockManager
	allocator    storage.Allocator

	currentMemoryBytes atomic.Int64
	maximumMemoryBytes atomic.Int64
	temporaryID        atomic.Int64

	queue *evictionQueue

	// lock guards the registry of persistent block handles.
	lock   sync.Mutex
	blocks map[storage.BlockID]*BlockHandle

	// limitLock serializes SetLimit() callers, whose two eviction
	// passes must not interleave.
	limitLock sync.Mutex

	// tempLock guards the spill directory configuration and the
	// lazily created directory handle. tempConfigured mirrors
	// whether a spill target exists, so that eviction checks do not
	// need the lock.
	tempLock       sync.Mutex
	tempConfigured atomic.Bool
	tempParent     filesystem.Directory
	tempName       string
	tempHandle     *temporaryDirectoryHandle

	candidatesSkippedExpired     prometheus.Counter
	candidatesSkippedSuperseded  prometheus.Counter
	candidatesSkippedUnevictable prometheus.Counter
}

// NewBufferManager creates a buffer manager that reads persistent
// blocks through blockManager, allocates buffer memory through
// allocator and keeps the working set at or below maximumMemoryBytes.
// Spilling is disabled until SetTemporaryDirectory() is called.
func NewBufferManager(blockManager storage.BlockManager, allocator storage.Allocator, maximumMemoryBytes int64) *BufferManager {
	bufferManagerPrometheusMetrics.Do(func() {
		prometheus.MustRegister(bufferManagerBlocksEvicted)
		prometheus.MustRegister(bufferManagerEvictionCandidatesSkipped)
		prometheus.MustRegister(bufferManagerBuffersSpilled)
		prometheus.MustRegister(bufferManagerBuffersRestored)
	})

	bm := &BufferManager{
		blockManager: blockManager,
		allocator:    allocator,
		queue:        newEvictionQueue(),
		blocks:       map[storage.BlockID]*BlockHandle{},

		candidatesSkippedExpired:     bufferManagerEvictionCandidatesSkipped.WithLabelValues("expired"),
		candidatesSkippedSuperseded:  bufferManagerEvictionCandidatesSkipped.WithLabelValues("superseded"),
		candidatesSkippedUnevictable: bufferManagerEvictionCandidatesSkipped.WithLabelValues("unevictable"),
	}
	bm.maximumMemoryBytes.Store(maximumMemoryBytes)
	bm.temporaryID.Store(int64(storage.MaximumBlockID))
	return bm
}

// RegisterBlock returns the handle for a persistent block, creating an
// unloaded one if no live handle exists. All callers registering the
// same block identifier share a single handle; each caller owns one
// reference and must eventually call BlockHandle.Release().
func (bm *BufferManager) RegisterBlock(blockID storage.BlockID) *BlockHandle {
	bm.lock.Lock()
	defer bm.lock.Unlock()
	// An expired entry may still be present if the previous handle's
	// destructor has not run yet; treat it as absent.
	if existing, ok := bm.blocks[blockID]; ok && existing.acquire() {
		return existing
	}
	handle := newBlockHandle(bm, blockID)
	bm.blocks[blockID] = handle
	return handle
}

// RegisterMemory creates a transient buffer of allocSizeBytes and
// returns its loaded handle. When canDestroy is set, eviction simply
// discards the buffer's contents; otherwise eviction spills them to
// the temporary directory.
func (bm *BufferManager) RegisterMemory(allocSizeBytes int64, canDestroy bool) (*BlockHandle, error) {
	memoryUsageBytes := allocSizeBytes + storage.BlockHeaderSizeBytes
	if err := bm.evictBlocks(memoryUsageBytes, bm.maximumMemoryBytes.Load()); err != nil {
		return nil, util.StatusWrapf(err, "Could not allocate buffer of %d bytes", allocSizeBytes)
	}
	buffer := storage.NewFileBuffer(bm.allocator, allocSizeBytes)
	blockID := storage.BlockID(bm.temporaryID.Add(1))
	return newTransientBlockHandle(bm, blockID, buffer, canDestroy, memoryUsageBytes), nil
}

// Allocate creates a destroyable transient buffer and returns it
// pinned. The view holds the only reference to the buffer's handle, so
// releasing the view destroys the buffer.
func (bm *BufferManager) Allocate(allocSizeBytes int64) (*BufferHandle, error) {
	handle, err := bm.RegisterMemory(allocSizeBytes, true)
	if err != nil {
		return nil, err
	}
	pinned, err := bm.Pin(handle)
	handle.Release()
	return pinned, err
}

// Reallocate resizes a transient buffer in place. The caller must hold
// exactly one pin on the handle. Growth may evict other blocks and
// fails if not enough memory can be reclaimed; shrinkage credits the
// surplus back to the budget immediately.
func (bm *BufferManager) Reallocate(handle *BlockHandle, allocSizeBytes int64) error {
	handle.lock.Lock()
	defer handle.lock.Unlock()
	if handle.readers.Load() != 1 {
		panic("Attempted to reallocate a handle that is not pinned exactly once")
	}
	totalSizeBytes := allocSizeBytes + storage.BlockHeaderSizeBytes
	requiredMemoryBytes := totalSizeBytes - handle.memoryUsageBytes
	if requiredMemoryBytes > 0 {
		if err := bm.evictBlocks(requiredMemoryBytes, bm.maximumMemoryBytes.Load()); err != nil {
			return util.StatusWrapf(err, "Could not grow buffer %d to %d bytes", handle.blockID, allocSizeBytes)
		}
	} else if requiredMemoryBytes < 0 {
		bm.currentMemoryBytes.Add(requiredMemoryBytes)
	}
	handle.buffer.Resize(allocSizeBytes)
	handle.memoryUsageBytes = totalSizeBytes
	return nil
}

// Pin makes the handle's contents resident and returns a view over
// them. The contents stay resident until the view is released. Memory
// is reserved before the contents are loaded, so pinning an evicted
// destroyable buffer fails with RESOURCE_EXHAUSTED if the reservation
// fails, and otherwise with NOT_FOUND, as its contents no longer exist
// anywhere.
func (bm *BufferManager) Pin(handle *BlockHandle) (*BufferHandle, error) {
	handle.lock.Lock()
	if handle.state.Load() == blockLoaded {
		handle.readers.Add(1)
		pinned, err := handle.load()
		handle.lock.Unlock()
		return pinned, err
	}
	requiredMemoryBytes := handle.memoryUsageBytes
	handle.lock.Unlock()

	// Reserve memory for the contents before loading them. Eviction
	// needs to lock other handles, which is why this handle's lock
	// is dropped first.
	if err := bm.evictBlocks(requiredMemoryBytes, bm.maximumMemoryBytes.Load()); err != nil {
		return nil, util.StatusWrapf(err, "Could not pin block %d", handle.blockID)
	}

	handle.lock.Lock()
	defer handle.lock.Unlock()
	if handle.state.Load() == blockLoaded {
		// A concurrent pinner loaded the contents while the lock
		// was dropped, making our reservation a duplicate.
		bm.currentMemoryBytes.Add(-requiredMemoryBytes)
		handle.readers.Add(1)
		return handle.load()
	}
	if handle.readers.Load() != 0 {
		panic("Unloaded handle must not have readers")
	}
	handle.readers.Store(1)
	pinned, err := handle.load()
	if err != nil {
		// The contents did not become resident; undo the pin and
		// the reservation.
		handle.readers.Store(0)
		bm.currentMemoryBytes.Add(-requiredMemoryBytes)
		return nil, err
	}
	return pinned, nil
}

// unpin is called by BufferHandle.Release(). When the last pin goes
// away, the handle becomes an eviction candidate.
func (bm *BufferManager) unpin(handle *BlockHandle) {
	handle.lock.Lock()
	defer handle.lock.Unlock()
	if handle.readers.Load() <= 0 {
		panic("Attempted to unpin a handle that has no readers")
	}
	if handle.readers.Add(-1) == 0 {
		bm.queue.enqueue(evictionCandidate{
			handle:        handle,
			evictionEpoch: handle.evictionEpoch.Add(1),
		})
	}
}

// evictBlocks reserves extraMemoryBytes of buffer memory, unloading
// eviction candidates until the total charge is at or below
// memoryLimitBytes. When the queue drains before the budget is met, or
// when a spill fails, the reservation is undone and an error is
// returned.
func (bm *BufferManager) evictBlocks(extraMemoryBytes, memoryLimitBytes int64) error {
	bm.currentMemoryBytes.Add(extraMemoryBytes)
	for bm.currentMemoryBytes.Load() > memoryLimitBytes {
		candidate, ok := bm.queue.dequeue()
		if !ok {
			bm.currentMemoryBytes.Add(-extraMemoryBytes)
			return status.Errorf(codes.ResourceExhausted, "Memory limit of %d bytes reached, and the eviction queue holds no more candidates", memoryLimitBytes)
		}
		handle := candidate.handle
		if !handle.acquire() {
			// The handle was destroyed after the candidate was
			// produced; destruction already credited its
			// memory.
			bm.candidatesSkippedExpired.Inc()
			continue
		}
		if candidate.evictionEpoch != handle.evictionEpoch.Load() {
			// The handle was repinned and released since; a
			// newer candidate supersedes this one.
			bm.candidatesSkippedSuperseded.Inc()
			handle.Release()
			continue
		}
		if !handle.canUnload() {
			bm.candidatesSkippedUnevictable.Inc()
			handle.Release()
			continue
		}
		handle.lock.Lock()
		if candidate.evictionEpoch != handle.evictionEpoch.Load() || !handle.canUnload() {
			// Something changed between the cheap check and
			// acquiring the lock.
			handle.lock.Unlock()
			bm.candidatesSkippedUnevictable.Inc()
			handle.Release()
			continue
		}
		err := handle.unload()
		handle.lock.Unlock()
		handle.Release()
		if err != nil {
			bm.currentMemoryBytes.Add(-extraMemoryBytes)
			return err
		}
		bufferManagerBlocksEvicted.Inc()
	}
	return nil
}

// unregisterBlock is called by a handle's destructor. Persistent
// blocks are erased from the registry; non-destroyable transient
// buffers take their spill file with them.
func (bm *BufferManager) unregisterBlock(handle *BlockHandle) {
	if handle.blockID.IsTransient() {
		if !handle.canDestroy {
			bm.deleteTemporaryFile(handle.blockID)
		}
	} else {
		bm.lock.Lock()
		defer bm.lock.Unlock()
		// The registry may already point at a fresh handle that
		// replaced this one after it expired.
		if bm.blocks[handle.blockID] == handle {
			delete(bm.blocks, handle.blockID)
		}
	}
}

// SetLimit changes the memory limit, evicting blocks as needed to make
// the current working set fit. On failure the previous limit remains
// in effect.
func (bm *BufferManager) SetLimit(memoryLimitBytes int64) error {
	bm.limitLock.Lock()
	defer bm.limitLock.Unlock()
	if err := bm.evictBlocks(0, memoryLimitBytes); err != nil {
		return util.StatusWrapf(err, "Failed to change memory limit to %d bytes", memoryLimitBytes)
	}
	oldLimitBytes := bm.maximumMemoryBytes.Swap(memoryLimitBytes)
	// A concurrent reservation may have slipped in between the
	// eviction pass and the new limit taking effect; evict once
	// more.
	if err := bm.evictBlocks(0, memoryLimitBytes); err != nil {
		bm.maximumMemoryBytes.Store(oldLimitBytes)
		return util.StatusWrapf(err, "Failed to change memory limit to %d bytes", memoryLimitBytes)
	}
	return nil
}

// GetUsedMemoryBytes returns the amount of memory currently charged
// against the budget. Concurrent pins may transiently push this above
// the maximum; at quiescence it equals the sum of the memory usage of
// all loaded handles.
func (bm *BufferManager) GetUsedMemoryBytes() int64 {
	return bm.currentMemoryBytes.Load()
}

// GetMaximumMemoryBytes returns the configured memory limit.
func (bm *BufferManager) GetMaximumMemoryBytes() int64 {
	return bm.maximumMemoryBytes.Load()
}

// SetTemporaryDirectory configures the spill area: a directory named
// name, created under parent upon the first spill. It cannot be
// changed once a spill has occurred. A nil parent disables spilling,
// which makes non-destroyable transient buffers unevictable.
func (bm *BufferManager) SetTemporaryDirectory(parent filesystem.Directory, name string) error {
	bm.tempLock.Lock()
	defer bm.tempLock.Unlock()
	if bm.tempHandle != nil {
		return status.Error(codes.Unimplemented, "Cannot switch temporary directory after the current one has been used")
	}
	bm.tempParent = parent
	bm.tempName = name
	bm.tempConfigured.Store(parent != nil)
	return nil
}

// Close tears down the spill directory, if one was created. No block
// handles may be used afterwards.
func (bm *BufferManager) Close() error {
	bm.tempLock.Lock()
	defer bm.tempLock.Unlock()
	if bm.tempHandle == nil {
		return nil
	}
	handle := bm.tempHandle
	bm.tempHandle = nil
	bm.tempConfigured.Store(false)
	return handle.close()
}

func (bm *BufferManager) spillingEnabled() bool {
	return bm.tempConfigured.Load()
}

// requireTemporaryDirectory returns the spill directory, creating it
// on first use.
func (bm *BufferManager) requireTemporaryDirectory() (filesystem.Directory, error) {
	if !bm.tempConfigured.Load() {
		return nil, status.Error(codes.ResourceExhausted, "Out of memory: cannot spill buffer because no temporary directory is configured. Configure one by calling BufferManager.SetTemporaryDirectory()")
	}
	bm.tempLock.Lock()
	defer bm.tempLock.Unlock()
	if bm.tempHandle == nil {
		handle, err := newTemporaryDirectoryHandle(bm.tempParent, bm.tempName)
		if err != nil {
			return nil, err
		}
		bm.tempHandle = handle
	}
	return bm.tempHandle.directory, nil
}

func temporaryFileName(blockID storage.BlockID) string {
	return fmt.Sprintf("%d.block", blockID)
}

// writeTemporaryBuffer spills a transient buffer: an 8-byte
// little-endian payload size, followed by the payload. A partially
// written spill file is removed, so that later pins never observe a
// half-spilled buffer.
func (bm *BufferManager) writeTemporaryBuffer(blockID storage.BlockID, buffer *storage.FileBuffer) error {
	directory, err := bm.requireTemporaryDirectory()
	if err != nil {
		return err
	}
	name := temporaryFileName(blockID)
	file, err := directory.OpenReadWrite(name, filesystem.CreateReuse(0o644))
	if err != nil {
		return util.StatusWrapf(err, "Failed to create spill file %#v", name)
	}
	var sizeBytes [8]byte
	binary.LittleEndian.PutUint64(sizeBytes[:], uint64(buffer.SizeBytes()))
	if _, err = file.WriteAt(sizeBytes[:], 0); err == nil {
		err = buffer.WriteTo(file, int64(len(sizeBytes)))
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		directory.Remove(name)
		return util.StatusWrapf(err, "Failed to write spill file %#v", name)
	}
	bufferManagerBuffersSpilled.Inc()
	return nil
}

// readTemporaryBuffer loads a previously spilled transient buffer back
// into memory. The caller must have reserved memory for it already.
func (bm *BufferManager) readTemporaryBuffer(blockID storage.BlockID) (*storage.FileBuffer, error) {
	bm.tempLock.Lock()
	handle := bm.tempHandle
	bm.tempLock.Unlock()
	if handle == nil {
		panic("Attempted to read a spill file while no temporary directory exists")
	}
	name := temporaryFileName(blockID)
	file, err := handle.directory.OpenRead(name)
	if err != nil {
		return nil, util.StatusWrapf(err, "Failed to open spill file %#v", name)
	}
	defer file.Close()
	var sizeBytes [8]byte
	if n, err := file.ReadAt(sizeBytes[:], 0); err != nil && !(err == io.EOF && n == len(sizeBytes)) {
		return nil, util.StatusWrapf(err, "Failed to read size of spill file %#v", name)
	}
	buffer := storage.NewFileBuffer(bm.allocator, int64(binary.LittleEndian.Uint64(sizeBytes[:])))
	if err := buffer.ReadFrom(file, int64(len(sizeBytes))); err != nil {
		return nil, util.StatusWrapf(err, "Failed to read contents of spill file %#v", name)
	}
	bufferManagerBuffersRestored.Inc()
	return buffer, nil
}

// deleteTemporaryFile removes a transient buffer's spill file, if it
// was ever created.
func (bm *BufferManager) deleteTemporaryFile(blockID storage.BlockID) {
	bm.tempLock.Lock()
	defer bm.tempLock.Unlock()
	if bm.tempHandle == nil {
		return
	}
	// Best effort; the buffer may never have been spilled.
	bm.tempHandle.directory.Remove(temporaryFileName(blockID))
}
