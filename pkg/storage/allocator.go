package storage

// Allocator hands out raw memory for block and transient buffers. It
// exists as an interface so that embedders can account for or pool the
// memory backing the database's working set.
type Allocator interface {
	// Allocate returns a zeroed region of exactly sizeBytes bytes.
	Allocate(sizeBytes int64) []byte
}

type systemAllocator struct{}

func (systemAllocator) Allocate(sizeBytes int64) []byte {
	return make([]byte, sizeBytes)
}

// SystemAllocator allocates buffers on the regular Go heap.
var SystemAllocator Allocator = systemAllocator{}
