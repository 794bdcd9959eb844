package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
// 处理器中未捕获的 panic 转换为 500 JSON 错误响应
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			if err := recover(); err != nil {
				var errorMsg string
				fields := []zap.Field{
					zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
					zap.String("router", path),
					zap.String(logger.FieldMethod, c.Request.Method),
					zap.String("query", query),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
				}
				switch e := err.(type) {
				case string:
					errorMsg = e
					lg.Error("Recovered from panic", append(fields,
						zap.String("panic_value", e),
						zap.String("stack", string(debug.Stack())))...)
				case error:
					errorMsg = e.Error()
					lg.Error("Recovered from panic", append(fields,
						zap.Error(e),
						zap.String("stack", string(debug.Stack())))...)
				default:
					// 其它类型的 panic 值
					errorMsg = fmt.Sprintf("%v", e)
					lg.Error("Recovered from unknown panic", append(fields,
						zap.String("panic_value", errorMsg),
						zap.String("stack", string(debug.Stack())))...)
				}

				// 返回统一的错误响应
				app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
				c.Abort()
			}
		}()

		c.Next()
	}
}
