package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// ErrorRes is the body of every failed JSON response
// ErrorRes 失败响应体
type ErrorRes struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

func GetAccessHost(c *gin.Context) string {
	AccessProto := ""
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto == "" {
		AccessProto = "http" + "://"
	} else {
		AccessProto = proto + "://"
	}
	return AccessProto + c.Request.Host
}

// Lang returns the language chosen by the lang middleware
// Lang 返回语言中间件选定的语言
func Lang(c *gin.Context) string {
	return c.GetString("lang")
}

// ToResponse writes the code's data on success, otherwise {error, code} with the code's HTTP status
// ToResponse 成功时输出 Data，失败时输出 {error, code}，HTTP 状态取自 codeObj
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	if codeObj.Status() {
		data := codeObj.Data()
		if !codeObj.HaveData() {
			data = gin.H{"success": true}
		}
		r.send(codeObj.StatusCode(), data)
		return
	}

	msg := codeObj.MsgIn(Lang(r.Ctx))
	if codeObj.HaveDetails() {
		msg += ": " + strings.Join(codeObj.Details(), ", ")
	}
	r.send(codeObj.StatusCode(), ErrorRes{Error: msg, Code: codeObj.Code()})
}

// ToErrorText writes a plain text error page, used by browser-facing links
// ToErrorText 输出纯文本错误，用于浏览器直接打开的链接
func (r *Response) ToErrorText(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())
	r.Ctx.String(codeObj.StatusCode(), codeObj.MsgIn(Lang(r.Ctx)))
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
