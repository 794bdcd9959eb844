package local_fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMem(t *testing.T) (*LocalFS, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewWithFs(fs, &Config{}), fs
}

func TestLocalFS_PutOpen(t *testing.T) {
	client, _ := newMem(t)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "uploads/a.pdf", []byte("hello")))

	rc, err := client.Open(ctx, "uploads/a.pdf")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	// overwrite
	require.NoError(t, client.Put(ctx, "uploads/a.pdf", []byte("second")))
	rc2, err := client.Open(ctx, "uploads/a.pdf")
	require.NoError(t, err)
	defer rc2.Close()
	got, _ = io.ReadAll(rc2)
	assert.Equal(t, "second", string(got))
}

func TestLocalFS_OpenMissing(t *testing.T) {
	client, _ := newMem(t)
	_, err := client.Open(context.Background(), "uploads/missing.pdf")
	assert.True(t, errors.Is(err, object.ErrNotExist))

	// a directory is not an object
	require.NoError(t, client.Put(context.Background(), "uploads/x.pdf", []byte("x")))
	_, err = client.Open(context.Background(), "uploads")
	assert.True(t, errors.Is(err, object.ErrNotExist))
}

func TestLocalFS_DeleteIdempotent(t *testing.T) {
	client, _ := newMem(t)
	ctx := context.Background()
	require.NoError(t, client.Put(ctx, "shared/t_a.txt", []byte("x")))

	require.NoError(t, client.Delete(ctx, "shared/t_a.txt"))
	require.NoError(t, client.Delete(ctx, "shared/t_a.txt"))

	_, err := client.Open(ctx, "shared/t_a.txt")
	assert.True(t, errors.Is(err, object.ErrNotExist))
}

func TestLocalFS_List(t *testing.T) {
	client, fs := newMem(t)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "uploads/b.pdf", []byte("bb")))
	require.NoError(t, client.Put(ctx, "uploads/a.pdf", []byte("a")))
	require.NoError(t, client.Put(ctx, "shared/c.pdf", []byte("ccc")))
	// leftovers of an interrupted write are ignored
	require.NoError(t, afero.WriteFile(fs, "/uploads/.tmp-123", []byte("partial"), 0o644))

	list, err := client.List(ctx, "uploads")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "uploads/a.pdf", list[0].Key)
	assert.Equal(t, int64(1), list[0].Size)
	assert.Equal(t, "a.pdf", list[0].Name())
	assert.Equal(t, "uploads/b.pdf", list[1].Key)
	assert.False(t, list[1].ModTime.IsZero())

	empty, err := client.List(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLocalFS_CustomPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	client := NewWithFs(fs, &Config{CustomPath: "tenant"})
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "uploads/a.pdf", []byte("x")))
	ok, err := afero.Exists(fs, "/tenant/uploads/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := client.List(ctx, "uploads")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "uploads/a.pdf", list[0].Key)
}

func TestLocalFS_KeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	client, err := NewClient(&Config{SavePath: filepath.Join(root, "store")})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, "../../escape.txt", []byte("x")))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "store", "escape.txt"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "store"), client.Root())
}
