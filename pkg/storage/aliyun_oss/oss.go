package aliyun_oss

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*OSS)
)

// NewClient 创建阿里云 OSS 存储实例
func NewClient(conf *Config) (*OSS, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aliyun_oss: bucket-name is required")
	}

	cacheKey := conf.Endpoint + "|" + conf.AccessKeyID + "|" + conf.BucketName

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c := clients[cacheKey]; c != nil {
		return c, nil
	}

	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	bucket, err := client.Bucket(conf.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}

	c := &OSS{Client: client, Bucket: bucket, Config: conf}
	clients[cacheKey] = c
	return c, nil
}

func (p *OSS) key(k string) string {
	return object.JoinKey(p.Config.CustomPath, k)
}

func (p *OSS) Put(ctx context.Context, fileKey string, content []byte) error {
	if err := p.Bucket.PutObject(p.key(fileKey), bytes.NewReader(content), oss.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}

func (p *OSS) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	rc, err := p.Bucket.GetObject(p.key(fileKey), oss.WithContext(ctx))
	if err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, errors.Wrap(object.ErrNotExist, fileKey)
		}
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return rc, nil
}

// Delete OSS 删除不存在的对象同样返回成功
func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	if err := p.Bucket.DeleteObject(p.key(fileKey), oss.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}

func (p *OSS) List(ctx context.Context, prefix string) ([]object.Info, error) {
	full := p.key(prefix)
	if full != "" {
		full += "/"
	}

	var out []object.Info
	token := ""
	for {
		opts := []oss.Option{oss.Prefix(full), oss.Delimiter("/"), oss.WithContext(ctx)}
		if token != "" {
			opts = append(opts, oss.ContinuationToken(token))
		}
		res, err := p.Bucket.ListObjectsV2(opts...)
		if err != nil {
			return nil, errors.Wrap(err, "aliyun_oss")
		}
		for _, o := range res.Objects {
			out = append(out, object.Info{
				Key:     object.TrimBase(p.Config.CustomPath, o.Key),
				Size:    o.Size,
				ModTime: o.LastModified,
			})
		}
		if !res.IsTruncated {
			break
		}
		token = res.NextContinuationToken
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
