package filesystem_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tarndb/tarn-storage/pkg/filesystem"
	"github.com/tarndb/tarn-storage/pkg/testutil"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLocalDirectory(t *testing.T) {
	directory, err := filesystem.NewLocalDirectory(t.TempDir())
	require.NoError(t, err)

	t.Run("InvalidFilename", func(t *testing.T) {
		_, err := directory.OpenRead("sub/file")
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid filename: \"sub/file\""), err)
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid filename: \"..\""), directory.Mkdir("..", 0o755))
		testutil.RequireEqualStatus(t, status.Error(codes.InvalidArgument, "Invalid filename: \"\""), directory.Remove(""))
	})

	t.Run("ReadWriteFile", func(t *testing.T) {
		file, err := directory.OpenReadWrite("hello.txt", filesystem.CreateReuse(0o644))
		require.NoError(t, err)
		_, err = file.WriteAt([]byte("Hello world"), 0)
		require.NoError(t, err)
		var contents [5]byte
		_, err = file.ReadAt(contents[:], 6)
		require.NoError(t, err)
		require.Equal(t, []byte("world"), contents[:])
		require.NoError(t, file.Close())

		require.NoError(t, directory.Remove("hello.txt"))
		_, err = directory.OpenRead("hello.txt")
		require.True(t, os.IsNotExist(err))
	})

	t.Run("DontCreate", func(t *testing.T) {
		_, err := directory.OpenReadWrite("absent.txt", filesystem.DontCreate)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("EnterDirectory", func(t *testing.T) {
		require.NoError(t, directory.Mkdir("sub", 0o755))
		sub, err := directory.EnterDirectory("sub")
		require.NoError(t, err)
		file, err := sub.OpenReadWrite("nested.txt", filesystem.CreateReuse(0o644))
		require.NoError(t, err)
		require.NoError(t, file.Close())
		require.NoError(t, sub.Remove("nested.txt"))
		require.NoError(t, sub.Close())
		require.NoError(t, directory.Remove("sub"))
	})

	t.Run("NotADirectory", func(t *testing.T) {
		file, err := directory.OpenReadWrite("plain.txt", filesystem.CreateReuse(0o644))
		require.NoError(t, err)
		require.NoError(t, file.Close())
		_, err = directory.EnterDirectory("plain.txt")
		require.Error(t, err)
		require.NoError(t, directory.Remove("plain.txt"))
	})

	require.NoError(t, directory.Close())
}
