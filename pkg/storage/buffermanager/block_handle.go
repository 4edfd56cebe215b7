package buffermanager

import (
	"sync"
	"sync/atomic"

	"github.com/tarndb/tarn-storage/pkg/storage"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	blockUnloaded int32 = iota
	blockLoaded
)

// BlockHandle tracks the in-memory state of a single block or
// transient buffer: whether its contents are resident, how many
// readers have it pinned, how much memory it occupies, and how often
// it has become evictable.
//
// A handle is jointly owned by everybody holding a reference to it:
// the caller that registered it and every pinned view. The last owner
// to call Release() destroys the handle, which discards any resident
// buffer and unregisters the handle from the buffer manager.
type BlockHandle struct {
	manager    *BufferManager
	blockID    storage.BlockID
	canDestroy bool

	// references counts the owners of the handle. It reaches zero
	// exactly once; entries in the eviction queue do not contribute
	// to it and must upgrade through acquire().
	references atomic.Int64

	// evictionEpoch is incremented every time the pin count drops to
	// zero. An eviction candidate carrying an older epoch has been
	// superseded and must be discarded.
	evictionEpoch atomic.Uint64

	// lock guards the fields below. state and readers are only
	// written while holding it, but stored atomically so that
	// evictors can inspect them cheaply before committing to the
	// lock.
	lock             sync.Mutex
	state            atomic.Int32
	readers          atomic.Int32
	buffer           *storage.FileBuffer
	memoryUsageBytes int64
}

// newBlockHandle creates a handle for a persistent block that has not
// been loaded yet.
func newBlockHandle(manager *BufferManager, blockID storage.BlockID) *BlockHandle {
	h := &BlockHandle{
		manager:          manager,
		blockID:          blockID,
		memoryUsageBytes: storage.BlockAllocSizeBytes,
	}
	h.references.Store(1)
	return h
}

// newTransientBlockHandle creates a handle that takes ownership of an
// already allocated transient buffer.
func newTransientBlockHandle(manager *BufferManager, blockID storage.BlockID, buffer *storage.FileBuffer, canDestroy bool, memoryUsageBytes int64) *BlockHandle {
	h := &BlockHandle{
		manager:          manager,
		blockID:          blockID,
		canDestroy:       canDestroy,
		buffer:           buffer,
		memoryUsageBytes: memoryUsageBytes,
	}
	h.references.Store(1)
	h.state.Store(blockLoaded)
	return h
}

// BlockID returns the identifier of the block or transient buffer that
// the handle refers to.
func (h *BlockHandle) BlockID() storage.BlockID {
	return h.blockID
}

// acquire upgrades a weak reference to the handle. It fails if the
// last owner has already released the handle.
func (h *BlockHandle) acquire() bool {
	for {
		references := h.references.Load()
		if references == 0 {
			return false
		}
		if h.references.CompareAndSwap(references, references+1) {
			return true
		}
	}
}

// Release drops one ownership reference. The last release destroys the
// handle: a resident buffer is discarded and credited against the
// memory budget, and the handle is unregistered from the buffer
// manager.
func (h *BlockHandle) Release() {
	if h.references.Add(-1) != 0 {
		return
	}
	h.lock.Lock()
	if h.state.Load() == blockLoaded {
		h.buffer = nil
		h.state.Store(blockUnloaded)
		h.manager.currentMemoryBytes.Add(-h.memoryUsageBytes)
	}
	h.lock.Unlock()
	h.manager.unregisterBlock(h)
}

// load makes the handle's contents resident and returns a pinned view
// over them. The caller must hold the handle lock and must already
// have reserved the handle's memory usage against the budget.
//
// Loading is idempotent: calling it on a loaded handle just returns
// another view.
func (h *BlockHandle) load() (*BufferHandle, error) {
	if h.state.Load() == blockLoaded {
		return newBufferHandle(h), nil
	}
	if !h.blockID.IsTransient() {
		block := storage.NewBlock(h.manager.allocator, h.blockID)
		if err := h.manager.blockManager.Read(block); err != nil {
			return nil, err
		}
		h.buffer = block.Buffer
	} else if h.canDestroy {
		// The buffer was discarded when it was evicted; its
		// contents are gone. Callers recover at a higher layer.
		return nil, status.Errorf(codes.NotFound, "Buffer %d was destroyed upon eviction", h.blockID)
	} else {
		buffer, err := h.manager.readTemporaryBuffer(h.blockID)
		if err != nil {
			return nil, err
		}
		h.buffer = buffer
	}
	h.state.Store(blockLoaded)
	return newBufferHandle(h), nil
}

// unload evicts the handle's contents, spilling them to the temporary
// directory first if they cannot be recovered otherwise. The caller
// must hold the handle lock and must have validated canUnload().
func (h *BlockHandle) unload() error {
	if h.state.Load() == blockUnloaded {
		return nil
	}
	if h.blockID.IsTransient() && !h.canDestroy {
		if err := h.manager.writeTemporaryBuffer(h.blockID, h.buffer); err != nil {
			// The spill file has been removed; the handle
			// remains loaded with its buffer intact.
			return err
		}
	}
	h.buffer = nil
	h.state.Store(blockUnloaded)
	h.manager.currentMemoryBytes.Add(-h.memoryUsageBytes)
	return nil
}

// canUnload returns whether the handle is currently a valid eviction
// target. All fields involved are read atomically, so this may be
// called without the handle lock as a cheap pre-check; only the answer
// obtained while holding the lock is authoritative.
func (h *BlockHandle) canUnload() bool {
	if h.state.Load() == blockUnloaded {
		return false
	}
	if h.readers.Load() > 0 {
		return false
	}
	if h.blockID.IsTransient() && !h.canDestroy && !h.manager.spillingEnabled() {
		// Unloading would require a spill, but there is nowhere
		// to spill to.
		return false
	}
	return true
}
