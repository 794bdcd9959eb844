package local_fs

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// tmpPrefix 写入中的临时文件前缀，List 时忽略
const tmpPrefix = ".tmp-"

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage"`
	CustomPath string `yaml:"custom-path"`
}

// LocalFS 本地磁盘存储，所有路径都被限制在 SavePath 之内
type LocalFS struct {
	Config *Config
	fs     afero.Fs
	root   string
}

// NewClient 创建本地存储，SavePath 不存在时自动创建
func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is required")
	}
	root, err := filepath.Abs(conf.SavePath)
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return &LocalFS{
		Config: conf,
		fs:     afero.NewBasePathFs(afero.NewOsFs(), root),
		root:   root,
	}, nil
}

// NewWithFs 使用给定的 afero.Fs 创建存储，测试中配合 afero.NewMemMapFs 使用
func NewWithFs(fs afero.Fs, conf *Config) *LocalFS {
	if conf == nil {
		conf = &Config{}
	}
	return &LocalFS{Config: conf, fs: fs}
}

// Root 返回存储根目录的绝对路径
func (p *LocalFS) Root() string {
	return p.root
}

func (p *LocalFS) key(k string) string {
	return path.Clean("/" + object.JoinKey(p.Config.CustomPath, k))
}

// Put writes through a temp file and a rename so readers never see a partial file
// Put 先写临时文件再重命名，读者不会看到写了一半的文件
func (p *LocalFS) Put(ctx context.Context, fileKey string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := p.key(fileKey)
	dir := path.Dir(dst)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "local_fs")
	}

	tmp, err := afero.TempFile(p.fs, dir, tmpPrefix+"*")
	if err != nil {
		return errors.Wrap(err, "local_fs")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		p.fs.Remove(tmpName)
		return errors.Wrap(err, "local_fs")
	}
	if err := tmp.Close(); err != nil {
		p.fs.Remove(tmpName)
		return errors.Wrap(err, "local_fs")
	}
	if err := p.fs.Rename(tmpName, dst); err != nil {
		p.fs.Remove(tmpName)
		return errors.Wrap(err, "local_fs")
	}
	return nil
}

func (p *LocalFS) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := p.fs.Open(p.key(fileKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(object.ErrNotExist, fileKey)
		}
		return nil, errors.Wrap(err, "local_fs")
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, errors.Wrap(object.ErrNotExist, fileKey)
	}
	return f, nil
}

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	err := p.fs.Remove(p.key(fileKey))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}

func (p *LocalFS) List(ctx context.Context, prefix string) ([]object.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := p.key(prefix)
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "local_fs")
	}

	out := make([]object.Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		out = append(out, object.Info{
			Key:     object.JoinKey(prefix, e.Name()),
			Size:    e.Size(),
			ModTime: e.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
