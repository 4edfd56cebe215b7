package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type localDirectory struct {
	path string
}

func validateFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return status.Errorf(codes.InvalidArgument, "Invalid filename: %#v", name)
	}
	return nil
}

// NewLocalDirectory creates a directory handle that corresponds to a
// local path on the system. The path must refer to an existing
// directory.
func NewLocalDirectory(path string) (DirectoryCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, status.Errorf(codes.InvalidArgument, "Path %#v does not refer to a directory", path)
	}
	return &localDirectory{path: path}, nil
}

func (d *localDirectory) EnterDirectory(name string) (DirectoryCloser, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}
	return NewLocalDirectory(filepath.Join(d.path, name))
}

func (d *localDirectory) Mkdir(name string, perm os.FileMode) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	return os.Mkdir(filepath.Join(d.path, name), perm)
}

func (d *localDirectory) OpenRead(name string) (FileReader, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(d.path, name))
}

func (d *localDirectory) OpenReadWrite(name string, creationMode CreationMode) (FileReadWriter, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(d.path, name), os.O_RDWR|creationMode.flags, creationMode.permissions)
}

func (d *localDirectory) Remove(name string) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	return os.Remove(filepath.Join(d.path, name))
}

func (d *localDirectory) Close() error {
	d.path = ""
	return nil
}
