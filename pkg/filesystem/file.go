package filesystem

import (
	"io"
)

// FileReader is returned by Directory.OpenRead(). It is a handle for a
// file that permits data to be read from arbitrary locations.
type FileReader interface {
	io.Closer
	io.ReaderAt
}

// FileWriter is a handle for a file that permits data to be written to
// arbitrary locations.
type FileWriter interface {
	io.Closer
	io.WriterAt

	Sync() error
	Truncate(size int64) error
}

// FileReadWriter is returned by Directory.OpenReadWrite(). It is a
// handle for a file that permits data to be read from and written to
// arbitrary locations.
type FileReadWriter interface {
	FileReader
	FileWriter
}
