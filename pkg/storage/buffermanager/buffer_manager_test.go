package buffermanager_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tarndb/tarn-storage/internal/mock"
	"github.com/tarndb/tarn-storage/pkg/filesystem"
	"github.com/tarndb/tarn-storage/pkg/storage"
	"github.com/tarndb/tarn-storage/pkg/storage/buffermanager"
	"github.com/tarndb/tarn-storage/pkg/testutil"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fillBlockWithID is a stand-in for actual block contents: every block
// read from "disk" starts with its own identifier.
func fillBlockWithID(block *storage.Block) error {
	binary.LittleEndian.PutUint64(block.Buffer.Data(), uint64(block.ID))
	return nil
}

func TestBufferManagerEvictsLeastRecentlyReleasedBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	blockManager.EXPECT().Read(gomock.Any()).DoAndReturn(fillBlockWithID).Times(5)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 3*storage.BlockAllocSizeBytes)

	// Three blocks fit within the limit without any eviction.
	var handles []*buffermanager.BlockHandle
	for blockID := storage.BlockID(1); blockID <= 3; blockID++ {
		handle := bm.RegisterBlock(blockID)
		handles = append(handles, handle)
		pinned, err := bm.Pin(handle)
		require.NoError(t, err)
		require.Equal(t, uint64(blockID), binary.LittleEndian.Uint64(pinned.Data()))
		pinned.Release()
	}
	require.Equal(t, int64(3*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())

	// Pinning a fourth block must evict block 1, the least recently
	// released one, keeping the working set within the limit.
	handle4 := bm.RegisterBlock(4)
	pinned4, err := bm.Pin(handle4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), binary.LittleEndian.Uint64(pinned4.Data()))
	require.Equal(t, int64(3*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	pinned4.Release()

	// Block 1 is no longer resident and must be read back from disk,
	// in turn evicting block 2.
	pinned1, err := bm.Pin(handles[0])
	require.NoError(t, err)
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(pinned1.Data()))
	require.Equal(t, int64(3*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	pinned1.Release()

	for _, handle := range handles {
		handle.Release()
	}
	handle4.Release()
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())
	require.NoError(t, bm.Close())
}

func TestBufferManagerConcurrentRegisterBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, storage.BlockAllocSizeBytes)

	// All concurrent callers registering the same block must observe
	// the same shared handle.
	handles := make([]*buffermanager.BlockHandle, 8)
	var group errgroup.Group
	for i := range handles {
		group.Go(func() error {
			handles[i] = bm.RegisterBlock(42)
			return nil
		})
	}
	require.NoError(t, group.Wait())
	for _, handle := range handles {
		require.Same(t, handles[0], handle)
		require.Equal(t, storage.BlockID(42), handle.BlockID())
	}

	for _, handle := range handles {
		handle.Release()
	}
	require.NoError(t, bm.Close())
}

func TestBufferManagerOutOfMemoryWithoutTemporaryDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 2*storage.BlockAllocSizeBytes)

	for i := 0; i < 2; i++ {
		handle, err := bm.RegisterMemory(storage.BlockSizeBytes, false)
		require.NoError(t, err)
		defer handle.Release()
		pinned, err := bm.Pin(handle)
		require.NoError(t, err)
		pinned.Release()
	}
	require.Equal(t, int64(2*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())

	// Both existing buffers are eviction candidates, but without a
	// temporary directory they cannot be spilled. The allocation must
	// fail, leaving the memory accounting untouched.
	_, err := bm.RegisterMemory(storage.BlockSizeBytes, false)
	testutil.RequireEqualStatus(
		t,
		status.Errorf(codes.ResourceExhausted, "Could not allocate buffer of %d bytes: Memory limit of %d bytes reached, and the eviction queue holds no more candidates", storage.BlockSizeBytes, 2*storage.BlockAllocSizeBytes),
		err)
	require.Equal(t, int64(2*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	require.NoError(t, bm.Close())
}

func TestBufferManagerSpillRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 2*storage.BlockAllocSizeBytes)
	tempPath := t.TempDir()
	parent, err := filesystem.NewLocalDirectory(tempPath)
	require.NoError(t, err)
	require.NoError(t, bm.SetTemporaryDirectory(parent, "spill"))

	handleA, err := bm.RegisterMemory(storage.BlockSizeBytes, false)
	require.NoError(t, err)
	pinnedA, err := bm.Pin(handleA)
	require.NoError(t, err)
	contents := pinnedA.Data()
	for i := range contents {
		contents[i] = byte(i * 31)
	}
	pinnedA.Release()

	handleB, err := bm.RegisterMemory(storage.BlockSizeBytes, false)
	require.NoError(t, err)
	pinnedB, err := bm.Pin(handleB)
	require.NoError(t, err)
	pinnedB.Release()

	// A third allocation exceeds the limit, forcing buffer A to be
	// spilled to disk.
	pinnedC, err := bm.Allocate(storage.BlockSizeBytes)
	require.NoError(t, err)
	require.Equal(t, int64(2*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	spillPathA := filepath.Join(tempPath, "spill", fmt.Sprintf("%d.block", handleA.BlockID()))
	_, err = os.Stat(spillPathA)
	require.NoError(t, err)

	// Once the spill directory is in use, it can no longer be
	// reconfigured.
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.Unimplemented, "Cannot switch temporary directory after the current one has been used"),
		bm.SetTemporaryDirectory(parent, "elsewhere"))

	// Pinning buffer A restores it from the spill file, in turn
	// spilling buffer B to make room.
	pinnedA2, err := bm.Pin(handleA)
	require.NoError(t, err)
	expected := make([]byte, storage.BlockSizeBytes)
	for i := range expected {
		expected[i] = byte(i * 31)
	}
	require.Equal(t, expected, pinnedA2.Data())
	pinnedA2.Release()
	pinnedC.Release()

	// Destroying a spilled buffer removes its spill file.
	handleA.Release()
	_, err = os.Stat(spillPathA)
	require.True(t, os.IsNotExist(err))
	handleB.Release()
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())

	// By now all spill files are gone, so shutting down removes the
	// spill directory itself.
	require.NoError(t, bm.Close())
	_, err = os.Stat(filepath.Join(tempPath, "spill"))
	require.True(t, os.IsNotExist(err))
}

func TestBufferManagerSpillWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, storage.BlockAllocSizeBytes)
	parent := mock.NewMockDirectory(ctrl)
	require.NoError(t, bm.SetTemporaryDirectory(parent, "spill"))

	handle, err := bm.RegisterMemory(storage.BlockSizeBytes, false)
	require.NoError(t, err)
	pinned, err := bm.Pin(handle)
	require.NoError(t, err)
	contents := pinned.Data()
	for i := range contents {
		contents[i] = byte(i * 17)
	}
	pinned.Release()

	// Eviction attempts to spill the buffer, but writing the spill
	// file fails. The partial file must be removed.
	name := fmt.Sprintf("%d.block", handle.BlockID())
	spillDirectory := mock.NewMockDirectoryCloser(ctrl)
	parent.EXPECT().Mkdir("spill", os.FileMode(0o755)).Return(nil)
	parent.EXPECT().EnterDirectory("spill").Return(spillDirectory, nil)
	spillFile := mock.NewMockFileReadWriter(ctrl)
	spillDirectory.EXPECT().OpenReadWrite(name, filesystem.CreateReuse(0o644)).Return(spillFile, nil)
	spillFile.EXPECT().WriteAt(gomock.Any(), int64(0)).Return(0, status.Error(codes.Internal, "Disk on fire"))
	spillFile.EXPECT().Close()
	spillDirectory.EXPECT().Remove(name).Return(nil)

	_, err = bm.Allocate(storage.BlockSizeBytes)
	testutil.RequireEqualStatus(
		t,
		status.Errorf(codes.Internal, "Could not allocate buffer of %d bytes: Failed to write spill file %#v: Disk on fire", storage.BlockSizeBytes, name),
		err)

	// The failed spill must leave the buffer resident and intact.
	require.Equal(t, int64(storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	pinned, err = bm.Pin(handle)
	require.NoError(t, err)
	expected := make([]byte, storage.BlockSizeBytes)
	for i := range expected {
		expected[i] = byte(i * 17)
	}
	require.Equal(t, expected, pinned.Data())
	pinned.Release()

	spillDirectory.EXPECT().Remove(name).Return(os.ErrNotExist)
	handle.Release()
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())

	spillDirectory.EXPECT().Close()
	parent.EXPECT().Remove("spill").Return(nil)
	require.NoError(t, bm.Close())
}

func TestBufferManagerDestroyableBufferDiscardedUponEviction(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, storage.BlockAllocSizeBytes)

	handle, err := bm.RegisterMemory(storage.BlockSizeBytes, true)
	require.NoError(t, err)
	pinned, err := bm.Pin(handle)
	require.NoError(t, err)
	pinned.Release()

	// Another allocation discards the destroyable buffer without
	// spilling. Its contents are gone for good.
	other, err := bm.Allocate(storage.BlockSizeBytes)
	require.NoError(t, err)
	require.Equal(t, int64(storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())

	// Once the other buffer is gone, memory can be reserved to pin the
	// discarded buffer again, but there is nothing left to load.
	other.Release()
	_, err = bm.Pin(handle)
	testutil.RequireEqualStatus(
		t,
		status.Errorf(codes.NotFound, "Buffer %d was destroyed upon eviction", handle.BlockID()),
		err)

	handle.Release()
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())
	require.NoError(t, bm.Close())
}

func TestBufferManagerReallocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 1<<20)

	handle, err := bm.RegisterMemory(1024, true)
	require.NoError(t, err)
	pinned, err := bm.Pin(handle)
	require.NoError(t, err)
	contents := pinned.Data()
	for i := range contents {
		contents[i] = byte(i * 13)
	}
	require.Equal(t, int64(1024+storage.BlockHeaderSizeBytes), bm.GetUsedMemoryBytes())

	// Growing preserves the existing contents and charges the
	// difference.
	require.NoError(t, bm.Reallocate(handle, 4096))
	require.Equal(t, int64(4096+storage.BlockHeaderSizeBytes), bm.GetUsedMemoryBytes())
	expected := make([]byte, 4096)
	for i := 0; i < 1024; i++ {
		expected[i] = byte(i * 13)
	}
	require.Equal(t, expected, pinned.Data())

	// Shrinking credits the surplus back immediately.
	require.NoError(t, bm.Reallocate(handle, 256))
	require.Equal(t, int64(256+storage.BlockHeaderSizeBytes), bm.GetUsedMemoryBytes())
	require.Equal(t, expected[:256], pinned.Data())

	// Growth beyond the limit fails, as there is nothing to evict.
	err = bm.Reallocate(handle, 1<<21)
	testutil.RequireEqualStatus(
		t,
		status.Errorf(codes.ResourceExhausted, "Could not grow buffer %d to %d bytes: Memory limit of %d bytes reached, and the eviction queue holds no more candidates", handle.BlockID(), 1<<21, 1<<20),
		err)
	require.Equal(t, int64(256+storage.BlockHeaderSizeBytes), bm.GetUsedMemoryBytes())

	pinned.Release()
	handle.Release()
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())
	require.NoError(t, bm.Close())
}

func TestBufferManagerSetLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	blockManager.EXPECT().Read(gomock.Any()).DoAndReturn(fillBlockWithID).AnyTimes()
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 3*storage.BlockAllocSizeBytes)

	var handles []*buffermanager.BlockHandle
	for blockID := storage.BlockID(1); blockID <= 3; blockID++ {
		handle := bm.RegisterBlock(blockID)
		handles = append(handles, handle)
		pinned, err := bm.Pin(handle)
		require.NoError(t, err)
		pinned.Release()
	}
	require.Equal(t, int64(3*storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())

	// Shrinking the limit evicts blocks until the working set fits.
	require.NoError(t, bm.SetLimit(storage.BlockAllocSizeBytes))
	require.Equal(t, int64(storage.BlockAllocSizeBytes), bm.GetUsedMemoryBytes())
	require.Equal(t, int64(storage.BlockAllocSizeBytes), bm.GetMaximumMemoryBytes())

	// A pinned block cannot be evicted, so the limit cannot drop to
	// zero. The previous limit must remain in effect and the pin must
	// remain usable.
	pinned, err := bm.Pin(handles[2])
	require.NoError(t, err)
	testutil.RequireEqualStatus(
		t,
		status.Error(codes.ResourceExhausted, "Failed to change memory limit to 0 bytes: Memory limit of 0 bytes reached, and the eviction queue holds no more candidates"),
		bm.SetLimit(0))
	require.Equal(t, int64(storage.BlockAllocSizeBytes), bm.GetMaximumMemoryBytes())
	require.Equal(t, uint64(3), binary.LittleEndian.Uint64(pinned.Data()))
	pinned.Release()

	// Once the pin is gone, the limit can drop all the way.
	require.NoError(t, bm.SetLimit(0))
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())
	require.Equal(t, int64(0), bm.GetMaximumMemoryBytes())

	for _, handle := range handles {
		handle.Release()
	}
	require.NoError(t, bm.Close())
}

func TestBufferManagerConcurrentPinningFiltersStaleCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	blockManager := mock.NewMockBlockManager(ctrl)
	blockManager.EXPECT().Read(gomock.Any()).DoAndReturn(fillBlockWithID).AnyTimes()
	bm := buffermanager.NewBufferManager(blockManager, storage.SystemAllocator, 2*storage.BlockAllocSizeBytes)

	// Two threads repeatedly pinning and releasing the same block
	// flood the eviction queue with superseded candidates. The block
	// must never be unloaded while pinned, so every pin observes its
	// contents.
	handle := bm.RegisterBlock(7)
	var group errgroup.Group
	for i := 0; i < 2; i++ {
		group.Go(func() error {
			for j := 0; j < 1000; j++ {
				pinned, err := bm.Pin(handle)
				if err != nil {
					return err
				}
				if contents := binary.LittleEndian.Uint64(pinned.Data()); contents != 7 {
					return status.Errorf(codes.Internal, "Pinned block holds %d", contents)
				}
				pinned.Release()
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())

	// Draining the queue must filter all stale candidates and evict
	// the single live one.
	require.NoError(t, bm.SetLimit(0))
	require.Equal(t, int64(0), bm.GetUsedMemoryBytes())
	handle.Release()
	require.NoError(t, bm.Close())
}
