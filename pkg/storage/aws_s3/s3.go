package aws_s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config S3 兼容存储配置
// Endpoint 为空时使用 AWS 官方地址；MinIO / Cloudflare R2 填写各自的地址
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
	UsePathStyle    bool   `yaml:"use-path-style"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		s.logger = logger
	}
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*S3)
)

// NewClient 创建 S3 存储实例，相同地址与凭证复用同一客户端
// opts 可选参数用于配置日志器等选项
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	if conf == nil || conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket-name is required")
	}

	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}

	cacheKey := conf.Endpoint + "|" + conf.AccessKeyID + "|" + conf.BucketName

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c := clients[cacheKey]; c != nil {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	c := &S3{
		S3Client: client,
		Config:   conf,
		logger:   zap.NewNop(), // 默认空日志器
	}
	for _, opt := range opts {
		opt(c)
	}
	clients[cacheKey] = c
	return c, nil
}

func (p *S3) key(k string) string {
	return object.JoinKey(p.Config.CustomPath, k)
}

func (p *S3) Put(ctx context.Context, fileKey string, content []byte) error {
	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.Config.BucketName),
		Key:           aws.String(p.key(fileKey)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			p.logger.Error("s3 bucket does not exist", zap.String("bucket", p.Config.BucketName))
		}
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}

func (p *S3) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.key(fileKey)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, errors.Wrap(object.ErrNotExist, fileKey)
		}
		return nil, errors.Wrap(err, "aws_s3")
	}
	return out.Body, nil
}

// Delete S3 删除不存在的对象同样返回成功
func (p *S3) Delete(ctx context.Context, fileKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.key(fileKey)),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}

func (p *S3) List(ctx context.Context, prefix string) ([]object.Info, error) {
	full := p.key(prefix)
	if full != "" {
		full += "/"
	}

	pager := s3.NewListObjectsV2Paginator(p.S3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(p.Config.BucketName),
		Prefix:    aws.String(full),
		Delimiter: aws.String("/"),
	})

	var out []object.Info
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "aws_s3")
		}
		for _, o := range page.Contents {
			out = append(out, object.Info{
				Key:     object.TrimBase(p.Config.CustomPath, aws.ToString(o.Key)),
				Size:    aws.ToInt64(o.Size),
				ModTime: aws.ToTime(o.LastModified),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
