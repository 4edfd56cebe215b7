package buffermanager

import (
	"github.com/tarndb/tarn-storage/pkg/storage"
)

// BufferHandle is a pinned view over a loaded block's buffer. As long
// as the view has not been released, the buffer is guaranteed to stay
// resident and its contents may be accessed directly, without going
// through the buffer manager again.
type BufferHandle struct {
	handle *BlockHandle
	buffer *storage.FileBuffer
}

// newBufferHandle adds an ownership reference on behalf of the view.
// The caller must hold the handle lock and have accounted for the view
// in the handle's reader count.
func newBufferHandle(h *BlockHandle) *BufferHandle {
	h.references.Add(1)
	return &BufferHandle{
		handle: h,
		buffer: h.buffer,
	}
}

// Handle returns the block handle underlying the view. No ownership
// reference is added, so the handle stays valid only while the view or
// another reference to the handle is held.
func (bh *BufferHandle) Handle() *BlockHandle {
	return bh.handle
}

// Data returns the pinned buffer's contents. The slice is valid until
// the view is released.
func (bh *BufferHandle) Data() []byte {
	return bh.buffer.Data()
}

// SizeBytes returns the payload size of the pinned buffer.
func (bh *BufferHandle) SizeBytes() int64 {
	return bh.buffer.SizeBytes()
}

// Release unpins the handle and drops the view's ownership reference.
// The view must not be used afterwards.
func (bh *BufferHandle) Release() {
	h := bh.handle
	bh.handle = nil
	bh.buffer = nil
	h.manager.unpin(h)
	h.Release()
}
