package api_router

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

func init() {
	expvar.Publish("uptime_seconds", expvar.Func(func() any {
		return int64(time.Since(startedAt).Seconds())
	}))
}

// Expvar 输出 expvar 变量（memstats、cmdline、uptime_seconds）
func Expvar(c *gin.Context) {
	expvar.Handler().ServeHTTP(c.Writer, c.Request)
}
