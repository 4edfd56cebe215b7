package buffermanager

import (
	"os"

	"github.com/tarndb/tarn-storage/pkg/filesystem"
	"github.com/tarndb/tarn-storage/pkg/util"
)

// temporaryDirectoryHandle scopes the on-disk spill area. It is
// created lazily by the first spill and removed when the buffer
// manager shuts down. Spill files are removed by the transient handles
// that own them, so by the time the handle is closed the directory is
// expected to be empty.
type temporaryDirectoryHandle struct {
	parent    filesystem.Directory
	name      string
	directory filesystem.DirectoryCloser
}

func newTemporaryDirectoryHandle(parent filesystem.Directory, name string) (*temporaryDirectoryHandle, error) {
	if err := parent.Mkdir(name, 0o755); err != nil && !os.IsExist(err) {
		return nil, util.StatusWrapf(err, "Failed to create temporary directory %#v", name)
	}
	directory, err := parent.EnterDirectory(name)
	if err != nil {
		return nil, util.StatusWrapf(err, "Failed to open temporary directory %#v", name)
	}
	return &temporaryDirectoryHandle{
		parent:    parent,
		name:      name,
		directory: directory,
	}, nil
}

func (h *temporaryDirectoryHandle) close() error {
	h.directory.Close()
	if err := h.parent.Remove(h.name); err != nil {
		return util.StatusWrapf(err, "Failed to remove temporary directory %#v", h.name)
	}
	return nil
}
