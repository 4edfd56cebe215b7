package filesystem

import (
	"io"
	"os"
)

// CreationMode specifies whether and how Directory.OpenReadWrite()
// should create new files.
type CreationMode struct {
	flags       int
	permissions os.FileMode
}

var (
	// DontCreate indicates that opening should fail in case the
	// target file does not exist.
	DontCreate = CreationMode{}
)

// CreateReuse indicates that a new file should be created if it doesn't
// already exist. If the target file already exists, that file will be
// opened instead.
func CreateReuse(perm os.FileMode) CreationMode {
	return CreationMode{flags: os.O_CREATE, permissions: perm}
}

// Directory is an abstraction for accessing a single directory of the
// file system. Names passed to any of its functions must be single path
// components; the functions reject names that would escape the
// directory. This keeps traversal explicit and makes it easy to stub
// out file system handling as part of unit tests.
type Directory interface {
	// EnterDirectory creates a derived directory handle for a
	// subdirectory of the current directory.
	EnterDirectory(name string) (DirectoryCloser, error)

	// Mkdir is the equivalent of os.Mkdir().
	Mkdir(name string, perm os.FileMode) error

	// Open a file contained within the directory for reading.
	OpenRead(name string) (FileReader, error)
	// Open a file contained within the directory for both reading
	// and writing.
	OpenReadWrite(name string, creationMode CreationMode) (FileReadWriter, error)

	// Remove a file or empty directory contained within the
	// directory.
	Remove(name string) error
}

// DirectoryCloser is a Directory handle that can be released.
type DirectoryCloser interface {
	Directory
	io.Closer
}
