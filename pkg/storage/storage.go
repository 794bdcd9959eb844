package storage

import (
	"context"
	"io"

	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/aliyun_oss"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/aws_s3"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/local_fs"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/object"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage/webdav"
	"go.uber.org/zap"
)

type Type = string

const LOCAL Type = "localfs"
const S3 Type = "s3"
const OSS Type = "oss"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	LOCAL:  true,
	S3:     true,
	OSS:    true,
	WebDAV: true,
}

// Object 存储对象元信息
type Object = object.Info

// ErrNotExist 对象不存在
var ErrNotExist = object.ErrNotExist

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	// Common settings
	CustomPath string `yaml:"custom-path"`

	// Cloud Storage (S3 / MinIO / R2 / OSS)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	UsePathStyle    bool   `yaml:"use-path-style"` // MinIO 需要开启

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage"`
}

// Storager is a flat blob store keyed by "<area>/<name>"
// Storager 以 "<area>/<name>" 为键的扁平对象存储
type Storager interface {
	// Put 写入对象，已存在则覆盖
	Put(ctx context.Context, key string, content []byte) error
	// Open 打开对象读取，不存在时返回 ErrNotExist
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete 删除对象，不存在时不报错
	Delete(ctx context.Context, key string) error
	// List 列出前缀下的对象，不递归
	List(ctx context.Context, prefix string) ([]Object, error)
}

// LocalRooter is implemented by backends that live on the local disk
// LocalRooter 由本地磁盘后端实现，用于健康检查统计磁盘用量
type LocalRooter interface {
	Root() string
}

// NewClient 根据配置创建存储客户端
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Type {
	case LOCAL, "":
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
			UsePathStyle:    config.UsePathStyle,
		}, aws_s3.WithLogger(logger))
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}
	return nil, code.ErrorInvalidStorageType.WithDetails(config.Type)
}
