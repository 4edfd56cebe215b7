package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tarndb/tarn-storage/pkg/storage"
)

func TestFileBufferResize(t *testing.T) {
	buffer := storage.NewFileBuffer(storage.SystemAllocator, 4)
	copy(buffer.Data(), "abcd")

	// Growing preserves the contents and zeroes the new region.
	buffer.Resize(8)
	require.Equal(t, int64(8), buffer.SizeBytes())
	require.Equal(t, []byte("abcd\x00\x00\x00\x00"), buffer.Data())

	// Shrinking truncates.
	buffer.Resize(2)
	require.Equal(t, int64(2), buffer.SizeBytes())
	require.Equal(t, []byte("ab"), buffer.Data())
}
