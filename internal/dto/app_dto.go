// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// VersionDTO version information for API response
// VersionDTO 版本信息 API 响应对象
type VersionDTO struct {
	Name      string `json:"name"`      // Service name // 服务名称
	Version   string `json:"version"`   // Current version // 当前版本
	GitTag    string `json:"gitTag"`    // Git tag // Git 标签
	BuildTime string `json:"buildTime"` // Build time // 构建时间
}

// HealthDTO health check response
// HealthDTO 健康检查响应
type HealthDTO struct {
	Status       string          `json:"status"`              // "ok" or "degraded" // 状态
	Version      string          `json:"version"`             // 当前版本
	Uptime       string          `json:"uptime"`              // 运行时长
	StorageType  string          `json:"storageType"`         // 存储类型
	ActiveShares int             `json:"activeShares"`        // 内存中的分享记录数（含未清理的过期记录）
	WorkerPool   WorkerPoolDTO   `json:"workerPool"`          // 文档处理队列
	Disk         *DiskUsageDTO   `json:"disk,omitempty"`      // 本地存储所在磁盘
	LastSweep    *SweepResultDTO `json:"lastSweep,omitempty"` // 最近一次清理
	Error        string          `json:"error,omitempty"`     // 降级原因
}

// WorkerPoolDTO 文档处理 Worker Pool 状态
type WorkerPoolDTO struct {
	MaxWorkers  int   `json:"maxWorkers"`
	ActiveCount int64 `json:"activeCount"`
	QueuedCount int   `json:"queuedCount"`
}

// DiskUsageDTO 磁盘用量
type DiskUsageDTO struct {
	Path        string  `json:"path"`
	Total       string  `json:"total"` // 可读格式，如 "250 GB"
	Free        string  `json:"free"`
	UsedPercent float64 `json:"usedPercent"`
}

// SweepResultDTO 清理结果
type SweepResultDTO struct {
	Scanned  int    `json:"scanned"`
	Deleted  int    `json:"deleted"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Freed    string `json:"freed"`
	At       string `json:"at"`
	Duration string `json:"duration"`
}
