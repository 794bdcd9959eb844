package webdav

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"
)

func newServer(t *testing.T) *WebDAV {
	t.Helper()
	srv := httptest.NewServer(&xwebdav.Handler{
		FileSystem: xwebdav.NewMemFS(),
		LockSystem: xwebdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Endpoint: srv.URL, CustomPath: "toolbox"})
	require.NoError(t, err)
	return c
}

func TestWebDAV_RoundTrip(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "uploads/a.pdf", []byte("pdf-bytes")))
	require.NoError(t, c.Put(ctx, "uploads/b.pdf", []byte("b")))

	rc, err := c.Open(ctx, "uploads/a.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(got))

	list, err := c.List(ctx, "uploads")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "uploads/a.pdf", list[0].Key)
	assert.Equal(t, int64(9), list[0].Size)

	require.NoError(t, c.Delete(ctx, "uploads/a.pdf"))
	require.NoError(t, c.Delete(ctx, "uploads/a.pdf"))

	_, err = c.Open(ctx, "uploads/a.pdf")
	assert.True(t, errors.Is(err, object.ErrNotExist))
}

func TestWebDAV_ListMissingDir(t *testing.T) {
	c := newServer(t)
	list, err := c.List(context.Background(), "shared")
	require.NoError(t, err)
	assert.Empty(t, list)
}
