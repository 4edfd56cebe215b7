package storage

import (
	"io"
)

// FileBuffer is a region of memory holding the payload of a block or
// transient buffer. It can be read from and written to files at a
// given offset, and resized in place.
type FileBuffer struct {
	allocator Allocator
	data      []byte
}

// NewFileBuffer allocates a buffer of the given payload size.
func NewFileBuffer(allocator Allocator, sizeBytes int64) *FileBuffer {
	return &FileBuffer{
		allocator: allocator,
		data:      allocator.Allocate(sizeBytes),
	}
}

// SizeBytes returns the payload size of the buffer.
func (b *FileBuffer) SizeBytes() int64 {
	return int64(len(b.data))
}

// Data returns the payload. The slice remains valid until the buffer
// is resized or released.
func (b *FileBuffer) Data() []byte {
	return b.data
}

// Resize grows or shrinks the buffer to the given payload size. The
// common prefix of the contents is preserved; any grown region is
// zeroed.
func (b *FileBuffer) Resize(sizeBytes int64) {
	data := b.allocator.Allocate(sizeBytes)
	copy(data, b.data)
	b.data = data
}

// ReadFrom fills the entire buffer with data read from the file,
// starting at the given offset. Short reads are reported as errors.
func (b *FileBuffer) ReadFrom(r io.ReaderAt, offsetBytes int64) error {
	// ReadAt may report io.EOF even when the final read filled the
	// buffer completely.
	if n, err := r.ReadAt(b.data, offsetBytes); err != nil && !(err == io.EOF && n == len(b.data)) {
		return err
	}
	return nil
}

// WriteTo writes the entire buffer to the file, starting at the given
// offset.
func (b *FileBuffer) WriteTo(w io.WriterAt, offsetBytes int64) error {
	if _, err := w.WriteAt(b.data, offsetBytes); err != nil {
		return err
	}
	return nil
}
