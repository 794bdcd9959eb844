// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/dto"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/util"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/disk"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 服务状态、处理队列、最近一次清理以及本地存储所在磁盘用量
// @Tags 系统
// @Produce json
// @Success 200 {object} dto.HealthDTO
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	pool := h.App.WorkerPool().GetMetrics()

	response := dto.HealthDTO{
		Status:       "ok",
		Version:      h.App.Version().Version,
		Uptime:       h.App.Uptime().Truncate(time.Second).String(),
		StorageType:  h.App.StorageType(),
		ActiveShares: h.App.ShareService.Count(),
		WorkerPool: dto.WorkerPoolDTO{
			MaxWorkers:  pool.MaxWorkers,
			ActiveCount: pool.ActiveCount,
			QueuedCount: pool.QueuedCount,
		},
	}

	if pool.IsClosed || h.App.IsShuttingDown() {
		response.Status = "degraded"
		response.Error = "shutting down"
	}

	// 仅本地存储可统计磁盘
	if root := h.App.LocalRoot(); root != "" {
		usage, err := disk.UsageWithContext(c.Request.Context(), root)
		if err != nil {
			response.Status = "degraded"
			response.Error = err.Error()
		} else {
			response.Disk = &dto.DiskUsageDTO{
				Path:        root,
				Total:       humanize.Bytes(usage.Total),
				Free:        humanize.Bytes(usage.Free),
				UsedPercent: usage.UsedPercent,
			}
		}
	}

	if last := h.App.JanitorService.LastResult(); last != nil {
		response.LastSweep = &dto.SweepResultDTO{
			Scanned:  last.Scanned,
			Deleted:  last.Deleted,
			Skipped:  last.Skipped,
			Errors:   last.Errors,
			Freed:    humanize.Bytes(uint64(last.FreedBytes)),
			At:       last.StartedAt.Format(util.ExpiryLayout),
			Duration: last.Duration.String(),
		}
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
