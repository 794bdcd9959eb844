package middleware

import (
	"github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound answers unknown routes with a 404 JSON error naming the method and path
// NoFound 未知路由返回 404 JSON
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
