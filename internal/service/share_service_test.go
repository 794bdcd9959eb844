package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestShares(t *testing.T, store FileStoreService) *shareService {
	t.Helper()
	return NewShareService(store, zap.NewNop(), nil).(*shareService)
}

// later 让服务时钟前进 d
func later(s *shareService, d time.Duration) {
	at := time.Now().Add(d)
	s.now = func() time.Time { return at }
}

func TestShare_TextRoundTrip(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))
	ctx := context.Background()

	rec, err := shares.ShareText(ctx, "hello")
	require.NoError(t, err)
	assert.Len(t, rec.ID, 22)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), rec.ExpiresAt, time.Minute)

	got, err := shares.Resolve(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShareKindText, got.Kind)
	assert.Equal(t, "hello", got.Payload.Text)
	assert.Equal(t, rec.ExpiresAt, got.ExpiresAt)
}

func TestShare_Validation(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))

	_, err := shares.ShareText(context.Background(), "")
	assert.True(t, errors.Is(err, code.ErrorTextRequired))

	_, err = shares.Create(domain.ShareKind("link"), domain.SharePayload{})
	assert.True(t, errors.Is(err, code.ErrorShareTypeInvalid))

	_, err = shares.ShareFile(context.Background(), []byte("x"), "tool.exe")
	assert.True(t, errors.Is(err, code.ErrorUploadExtNotAllow))
	assert.Zero(t, shares.Count())
}

func TestShare_UnknownID(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))

	_, err := shares.Resolve(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrShareNotFound))
}

func TestShare_FileExpiryDeletesFile(t *testing.T) {
	store := newTestStore(t)
	shares := newTestShares(t, store)
	ctx := context.Background()

	rec, err := shares.ShareFile(ctx, []byte("doc"), "../report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", rec.Payload.DisplayName)
	assert.True(t, shares.IsReferenced(rec.Payload.StoredPath))

	got, err := shares.Resolve(ctx, rec.ID)
	require.NoError(t, err)
	b, err := store.Read(ctx, got.Payload.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(b))

	later(shares, 24*time.Hour+time.Second)
	assert.False(t, shares.IsReferenced(rec.Payload.StoredPath))

	_, err = shares.Resolve(ctx, rec.ID)
	assert.True(t, errors.Is(err, domain.ErrShareExpired))

	_, err = shares.Resolve(ctx, rec.ID)
	assert.True(t, errors.Is(err, domain.ErrShareNotFound), "expiry is reported once")

	_, err = store.Read(ctx, rec.Payload.StoredPath)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
	assert.Zero(t, shares.Count())
}

func TestShare_FileWithNonASCIIName(t *testing.T) {
	store := newTestStore(t)
	shares := newTestShares(t, store)
	ctx := context.Background()

	rec, err := shares.ShareFile(ctx, []byte("doc"), "合同.pdf")
	require.NoError(t, err)
	assert.Equal(t, "file.pdf", rec.Payload.DisplayName)

	got, err := shares.Resolve(ctx, rec.ID)
	require.NoError(t, err)
	b, err := store.Read(ctx, got.Payload.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(b))
}

func TestShare_ConcurrentResolveExpiredOnce(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))
	ctx := context.Background()

	rec, err := shares.ShareText(ctx, "bye")
	require.NoError(t, err)
	later(shares, 25*time.Hour)

	var expired, notFound atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shares.Resolve(ctx, rec.ID)
			switch {
			case errors.Is(err, domain.ErrShareExpired):
				expired.Add(1)
			case errors.Is(err, domain.ErrShareNotFound):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, expired.Load())
	assert.EqualValues(t, 63, notFound.Load())
}

func TestShare_ConcurrentCreateUnique(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))

	const n = 200
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := shares.ShareText(context.Background(), fmt.Sprintf("t%d", i))
			if err == nil {
				ids[i] = rec.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, n, shares.Count())
}

func TestShare_CollisionRetries(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))

	tokens := []string{"same", "same", "other"}
	shares.token = func() (string, error) {
		tok := tokens[0]
		tokens = tokens[1:]
		return tok, nil
	}

	a, err := shares.Create(domain.ShareKindText, domain.SharePayload{Text: "a"})
	require.NoError(t, err)
	b, err := shares.Create(domain.ShareKindText, domain.SharePayload{Text: "b"})
	require.NoError(t, err)

	assert.Equal(t, "same", a.ID)
	assert.Equal(t, "other", b.ID)
}

func TestShare_CollisionGivesUp(t *testing.T) {
	shares := newTestShares(t, newTestStore(t))
	shares.token = func() (string, error) { return "fixed", nil }

	_, err := shares.Create(domain.ShareKindText, domain.SharePayload{Text: "a"})
	require.NoError(t, err)
	_, err = shares.Create(domain.ShareKindText, domain.SharePayload{Text: "b"})
	assert.True(t, errors.Is(err, code.ErrorShareCreate))
}

func TestShareRecord_IsExpiredBoundary(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := &domain.ShareRecord{ExpiresAt: at}

	assert.False(t, rec.IsExpired(at.Add(-time.Nanosecond)))
	assert.False(t, rec.IsExpired(at), "still live at exactly ExpiresAt")
	assert.True(t, rec.IsExpired(at.Add(time.Nanosecond)))
}
