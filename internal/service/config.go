// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"time"

	"github.com/haierkeys/doc-toolbox-service/pkg/util"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Store   FileStoreConfig // File store related config // 文件存储相关配置
	Share   ShareConfig     // Share registry config // 分享相关配置
	Janitor JanitorConfig   // Retention sweep config // 清理相关配置
}

// FileStoreConfig file store configuration
// FileStoreConfig 文件存储配置
type FileStoreConfig struct {
	WorkingDir string // Working area directory (operation outputs, staged uploads) // 工作区目录
	SharedDir  string // Shared area directory // 分享区目录
}

// ShareConfig share registry configuration
// ShareConfig 分享配置
type ShareConfig struct {
	TTL string // Link lifetime (e.g., 24h, 1d, default 24h) // 分享链接有效期（支持格式：24h、1d，默认 24h）
}

// JanitorConfig retention sweep configuration
// JanitorConfig 清理配置
type JanitorConfig struct {
	Retention string // Files older than this are swept (e.g., 1h, 30m, default 1h) // 文件保留时间（支持格式：1h、30m，默认 1h）
}

const (
	defaultWorkingDir = "uploads"
	defaultSharedDir  = "shared"
	defaultShareTTL   = 24 * time.Hour
	defaultRetention  = time.Hour
)

func (c FileStoreConfig) workingDir() string {
	if c.WorkingDir == "" {
		return defaultWorkingDir
	}
	return c.WorkingDir
}

func (c FileStoreConfig) sharedDir() string {
	if c.SharedDir == "" {
		return defaultSharedDir
	}
	return c.SharedDir
}

func (c ShareConfig) ttl() time.Duration {
	return util.ParseDurationOr(c.TTL, defaultShareTTL)
}

func (c JanitorConfig) retention() time.Duration {
	return util.ParseDurationOr(c.Retention, defaultRetention)
}
