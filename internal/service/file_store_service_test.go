package service

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/local_fs"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestStore 基于内存文件系统的文件存储
func newTestStore(t *testing.T) *fileStoreService {
	t.Helper()
	st := local_fs.NewWithFs(afero.NewMemMapFs(), nil)
	return NewFileStoreService(st, zap.NewNop(), nil).(*fileStoreService)
}

func TestFileStore_SanitizeName(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr *code.Code
	}{
		{name: "plain", input: "report.pdf", want: "report.pdf"},
		{name: "traversal", input: "../../etc/report.pdf", want: "etc_report.pdf"},
		{name: "windows traversal", input: `..\..\report.PDF`, want: "report.PDF"},
		{name: "spaces", input: "my report.docx", want: "my_report.docx"},
		{name: "chinese stem", input: "报告.pdf", want: "file.pdf"},
		{name: "mixed stem", input: "季度 report 2024.PDF", want: "report_2024.PDF"},
		{name: "accented stem", input: "résumé.docx", want: "resume.docx"},
		{name: "dot only stem", input: ".pdf", want: "file.pdf"},
		{name: "chinese bad ext", input: "合同.exe", wantErr: code.ErrorUploadExtNotAllow},
		{name: "empty", input: "", wantErr: code.ErrorUploadNameInvalid},
		{name: "only dots", input: "...", wantErr: code.ErrorUploadNameInvalid},
		{name: "no ext", input: "README", wantErr: code.ErrorUploadExtNotAllow},
		{name: "bad ext", input: "run.exe", wantErr: code.ErrorUploadExtNotAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SanitizeName(tt.input)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
		})
	}
}

func TestFileStore_SaveUploadNaming(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.SaveUpload(ctx, []byte("data"), "../../secret/plan.pdf")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/\d+_[0-9a-f]{8}_secret_plan\.pdf$`), p)

	b, err := s.Read(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

func TestFileStore_SaveNonASCIIName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.SaveUpload(ctx, []byte("data"), "附件.pdf")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/\d+_[0-9a-f]{8}_file\.pdf$`), p)

	p, err = s.SaveShared(ctx, []byte("data"), "合同.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "_file.pdf"), p)
}

func TestFileStore_SaveOutput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.SaveOutput(ctx, []byte("%PDF"), "merged", ".PDF")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/merged_\d+_[0-9a-f]{8}\.pdf$`), p)

	_, err = s.SaveOutput(ctx, []byte("x"), "evil", "pdf")
	assert.Error(t, err)

	_, err = s.SaveOutput(ctx, []byte("x"), "merged", "exe")
	assert.True(t, errors.Is(err, code.ErrorUploadExtNotAllow))
}

func TestFileStore_SaveShared(t *testing.T) {
	s := newTestStore(t)

	p, err := s.SaveShared(context.Background(), []byte("hi"), "notes.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "shared/"))
	assert.True(t, strings.HasSuffix(p, "_notes.txt"))
	// 22 字符 token + "_" + 文件名
	assert.Len(t, strings.TrimPrefix(p, "shared/"), 22+1+len("notes.txt"))
}

func TestFileStore_ReadMissingAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Read(ctx, "uploads/missing.pdf")
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))

	_, err = s.Read(ctx, "uploads/../shared/x.pdf")
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))

	_, err = s.Read(ctx, "elsewhere/x.pdf")
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))

	p, err := s.SaveUpload(ctx, []byte("x"), "a.pdf")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, p))
	require.NoError(t, s.Delete(ctx, p), "deleting twice is not an error")

	_, err = s.Read(ctx, p)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestFileStore_OpenBlocksDeleteIfIdle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.SaveOutput(ctx, []byte("payload"), "split", "pdf")
	require.NoError(t, err)

	rc, err := s.Open(ctx, p)
	require.NoError(t, err)
	assert.True(t, s.InUse(p))

	deleted, err := s.DeleteIfIdle(ctx, p)
	require.NoError(t, err)
	assert.False(t, deleted, "open file must survive")

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
	require.NoError(t, rc.Close())
	_ = rc.Close() // 重复关闭不能让计数变为负数
	assert.False(t, s.InUse(p))

	deleted, err = s.DeleteIfIdle(ctx, p)
	require.NoError(t, err)
	assert.True(t, deleted)
}

// slowDeleteStorage 删除阻塞直到 release 关闭，模拟远端存储
type slowDeleteStorage struct {
	storage.Storager
	started chan struct{}
	release chan struct{}
}

func (s *slowDeleteStorage) Delete(ctx context.Context, key string) error {
	close(s.started)
	<-s.release
	return s.Storager.Delete(ctx, key)
}

func TestFileStore_DeleteIfIdleDoesNotHoldLock(t *testing.T) {
	st := &slowDeleteStorage{
		Storager: local_fs.NewWithFs(afero.NewMemMapFs(), nil),
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := NewFileStoreService(st, zap.NewNop(), nil).(*fileStoreService)
	ctx := context.Background()

	p, err := s.SaveOutput(ctx, []byte("payload"), "merge", "pdf")
	require.NoError(t, err)

	type result struct {
		deleted bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		deleted, err := s.DeleteIfIdle(ctx, p)
		done <- result{deleted, err}
	}()
	<-st.started

	// 删除进行中，其他调用不被阻塞
	assert.False(t, s.InUse(p))
	_, err = s.Open(ctx, p)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound), "got %v", err)
	deleted, err := s.DeleteIfIdle(ctx, p)
	require.NoError(t, err)
	assert.False(t, deleted, "a second delete of the same path is skipped")

	close(st.release)
	r := <-done
	require.NoError(t, r.err)
	assert.True(t, r.deleted)

	_, err = s.Open(ctx, p)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
	assert.Empty(t, s.deleting)
	assert.Empty(t, s.open)
}

func TestFileStore_OpenMissingReleases(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open(context.Background(), "uploads/none.pdf")
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
	assert.False(t, s.InUse("uploads/none.pdf"))
}

func TestFileStore_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveOutput(ctx, []byte("1"), "rotated", "pdf")
	require.NoError(t, err)
	_, err = s.SaveShared(ctx, []byte("22"), "b.txt")
	require.NoError(t, err)

	working, err := s.List(ctx, domain.AreaWorking)
	require.NoError(t, err)
	require.Len(t, working, 1)
	assert.Equal(t, domain.AreaWorking, working[0].Area)
	assert.EqualValues(t, 1, working[0].Size)

	shared, err := s.List(ctx, domain.AreaShared)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.True(t, strings.HasSuffix(shared[0].Name, "_b.txt"))
}

func TestFileStore_DownloadPath(t *testing.T) {
	s := newTestStore(t)

	p, err := s.DownloadPath("merged_1_abcdef12.pdf")
	require.NoError(t, err)
	assert.Equal(t, "uploads/merged_1_abcdef12.pdf", p)

	for _, bad := range []string{"", "..", "../shared/x.pdf", "a/b.pdf", `a\b.pdf`, "a b.pdf"} {
		_, err := s.DownloadPath(bad)
		assert.True(t, errors.Is(err, domain.ErrFileNotFound), "name %q", bad)
	}
}
