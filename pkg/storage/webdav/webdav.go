package webdav

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config 结构体用于存储 WebDAV 连接信息。
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 结构体表示 WebDAV 客户端。
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config

	dirsMu sync.Mutex
	dirs   map[string]bool // 已确认存在的目录
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*WebDAV)
)

// NewClient 创建一个新的 WebDAV 客户端实例。
func NewClient(conf *Config) (*WebDAV, error) {
	if conf == nil || conf.Endpoint == "" {
		return nil, errors.New("webdav: endpoint is required")
	}

	cacheKey := conf.Endpoint + "|" + conf.User + "|" + conf.CustomPath

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c := clients[cacheKey]; c != nil {
		return c, nil
	}

	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	w := &WebDAV{Client: c, Config: conf, dirs: make(map[string]bool)}
	clients[cacheKey] = w
	return w, nil
}

func (w *WebDAV) key(k string) string {
	return "/" + object.JoinKey(w.Config.CustomPath, k)
}

func (w *WebDAV) ensureDir(dir string) error {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.Client.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

func (w *WebDAV) Put(ctx context.Context, fileKey string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := w.key(fileKey)
	if err := w.ensureDir(path.Dir(dst)); err != nil {
		return errors.Wrap(err, "webdav")
	}
	if err := w.Client.Write(dst, content, 0o644); err != nil {
		return errors.Wrap(err, "webdav")
	}
	return nil
}

func (w *WebDAV) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := w.Client.ReadStream(w.key(fileKey))
	if err != nil {
		if gowebdav.IsErrNotFound(err) || os.IsNotExist(err) {
			return nil, errors.Wrap(object.ErrNotExist, fileKey)
		}
		return nil, errors.Wrap(err, "webdav")
	}
	return rc, nil
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	err := w.Client.Remove(w.key(fileKey))
	if err != nil && !gowebdav.IsErrNotFound(err) && !os.IsNotExist(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}

func (w *WebDAV) List(ctx context.Context, prefix string) ([]object.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := w.Client.ReadDir(w.key(prefix))
	if err != nil {
		if gowebdav.IsErrNotFound(err) || os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "webdav")
	}

	out := make([]object.Info, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		out = append(out, object.Info{
			Key:     object.JoinKey(prefix, fi.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
