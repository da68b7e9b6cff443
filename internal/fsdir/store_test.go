package fsdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpattn/csvgate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListReturnsRegularFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.csv"), "name\nx\n")
	writeFile(t, filepath.Join(dir, "a.txt"), "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := NewStore(nil).List(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, int64(0), files[0].Size)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(7), files[1].Size)
	assert.Equal(t, filepath.Join(dir, "b.csv"), files[1].Path)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := NewStore(nil).List(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMoveRelocatesFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in.csv")
	dstDir := filepath.Join(root, "done")
	writeFile(t, src, "name\n")

	store := NewStore(nil)
	require.NoError(t, store.EnsureDirs(dstDir))

	dst, err := store.Move(context.Background(), src, dstDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dstDir, "in.csv"), dst)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "name\n", string(content))
}

func TestMoveMissingSourceIsIOError(t *testing.T) {
	root := t.TempDir()
	_, err := NewStore(nil).Move(context.Background(), filepath.Join(root, "ghost.csv"), root)

	var ioErr *domain.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "move", ioErr.Op)
}

func TestCopyFilePreservesContent(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.csv")
	dst := filepath.Join(root, "dst.csv")
	writeFile(t, src, "a,b\n1,2\n")

	require.NoError(t, copyFile(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))
}
