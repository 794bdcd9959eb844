// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/service"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage"
	"github.com/haierkeys/doc-toolbox-service/pkg/util"
	"github.com/haierkeys/doc-toolbox-service/pkg/workerpool"

	"github.com/creasty/defaults"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File       string           `yaml:"-"` // 配置文件路径，不序列化
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	App        AppSettings      `yaml:"app"`
	Storage    storage.Config   `yaml:"storage"`
	Share      ShareConfig      `yaml:"share"`
	Janitor    JanitorConfig    `yaml:"janitor"`
	WorkerPool WorkerPoolConfig `yaml:"worker-pool"`
	Cors       CorsConfig       `yaml:"cors"`
	Limiter    LimiterConfig    `yaml:"limiter"`
	Tracer     TracerConfig     `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":5000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"120"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"120"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / expvar / pprof），为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":5001"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 请求上下文超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"120"`
	// MaxUploadSize 单次请求上传大小上限，支持 1GiB、512MB 等格式
	MaxUploadSize string `yaml:"max-upload-size" default:"1GiB"`
	// WorkingDir 工作区目录（存储内的前缀）
	WorkingDir string `yaml:"working-dir" default:"uploads"`
	// SharedDir 分享区目录（存储内的前缀）
	SharedDir string `yaml:"shared-dir" default:"shared"`
}

// ShareConfig 分享配置
type ShareConfig struct {
	// TTL 分享链接有效期，支持格式：24h、1d
	TTL string `yaml:"ttl" default:"24h"`
}

// JanitorConfig 清理配置
type JanitorConfig struct {
	// Retention 文件保留时间
	Retention string `yaml:"retention" default:"1h"`
	// Schedule cron 表达式，为空时不按 cron 调度
	Schedule string `yaml:"schedule"`
	// Interval 固定间隔调度，如 10m；与 Schedule 都为空时只在访问首页时清理
	Interval string `yaml:"interval"`
}

// WorkerPoolConfig 文档处理 Worker Pool 配置
type WorkerPoolConfig struct {
	MaxWorkers int `yaml:"max-workers" default:"8"`
	QueueSize  int `yaml:"queue-size" default:"64"`
}

// CorsConfig 跨域配置
type CorsConfig struct {
	Enabled      bool     `yaml:"enabled" default:"false"`
	AllowOrigins []string `yaml:"allow-origins"`
}

// LimiterConfig 限流配置，按路由前缀的令牌桶
type LimiterConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// Capacity 桶容量
	Capacity int64 `yaml:"capacity" default:"30"`
	// Quantum 每个间隔放入的令牌数
	Quantum int64 `yaml:"quantum" default:"30"`
	// FillInterval 放入间隔
	FillInterval string `yaml:"fill-interval" default:"1m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 配置文件同目录下的 .env 会被读取，YAML 中的 ${VAR} 先按 .env 再按进程环境变量展开
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	env, err := loadDotEnv(filepath.Join(filepath.Dir(realpath), ".env"))
	if err != nil {
		return nil, realpath, err
	}
	expanded := os.Expand(string(file), func(key string) string {
		if v, ok := env[key]; ok {
			return v
		}
		return os.Getenv(key)
	})

	err = yaml.Unmarshal([]byte(expanded), c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// loadDotEnv 读取 .env 文件，文件不存在时返回空
func loadDotEnv(p string) (map[string]string, error) {
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(p)
	if err != nil {
		return nil, errors.Wrap(err, "read .env failed")
	}
	return env, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.WorkerPool.MaxWorkers > 0 {
		cfg.MaxWorkers = c.WorkerPool.MaxWorkers
	}
	if c.WorkerPool.QueueSize > 0 {
		cfg.QueueSize = c.WorkerPool.QueueSize
	}

	return cfg
}

// GetServiceConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		Store: service.FileStoreConfig{
			WorkingDir: c.App.WorkingDir,
			SharedDir:  c.App.SharedDir,
		},
		Share: service.ShareConfig{
			TTL: c.Share.TTL,
		},
		Janitor: service.JanitorConfig{
			Retention: c.Janitor.Retention,
		},
	}
}

// GetJanitorInterval 获取固定间隔清理周期，未配置或格式错误时返回 0
func (c *AppConfig) GetJanitorInterval() time.Duration {
	if c.Janitor.Interval == "" {
		return 0
	}
	return util.ParseDurationOr(c.Janitor.Interval, 0)
}

// GetLimiterFillInterval 获取限流令牌放入间隔
func (c *AppConfig) GetLimiterFillInterval() time.Duration {
	return util.ParseDurationOr(c.Limiter.FillInterval, time.Minute)
}

// GetMaxUploadSize 获取上传大小上限（字节），格式错误时为 1GiB
func (c *AppConfig) GetMaxUploadSize() int64 {
	if n, err := humanize.ParseBytes(c.App.MaxUploadSize); err == nil && n > 0 {
		return int64(n)
	}
	return 1 << 30
}
