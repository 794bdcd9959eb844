package middleware

import (
	"net/http"

	"github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body.
// A declared Content-Length above limit is rejected up front; chunked bodies fail on read with *http.MaxBytesError.
// BodyLimit 限制请求体大小，Content-Length 超限时直接拒绝，未声明长度的请求在读取超限时报错
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			app.NewResponse(c).ToResponse(code.ErrorUploadTooLarge.WithDetails(humanize.Bytes(uint64(c.Request.ContentLength))))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
