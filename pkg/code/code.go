package code

import (
	"fmt"
	"net/http"
	"strings"
)

type Code struct {
	// 业务码
	code int
	// HTTP 状态码
	httpStatus int
	// 是否成功
	status bool
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers a failure code bound to an HTTP status
// NewError 注册一个绑定 HTTP 状态码的错误码
func NewError(code int, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.Message(FALLBACK_LNG)

	return &Code{code: code, httpStatus: httpStatus, status: false, Lang: l}
}

// NewSuss registers a success code, always answered with 200
// NewSuss 注册一个成功码，始终以 200 返回
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.Message(FALLBACK_LNG)

	return &Code{code: code, httpStatus: http.StatusOK, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本
// 注册的 Code 是包级共享变量，With* 方法都在副本上修改
func (e *Code) Clone() *Code {
	c := &Code{
		code:        e.code,
		httpStatus:  e.httpStatus,
		status:      e.status,
		Lang:        e.Lang,
		data:        e.data,
		haveData:    e.haveData,
		haveDetails: e.haveDetails,
	}
	if len(e.details) > 0 {
		c.details = append([]string(nil), e.details...)
	}
	return c
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return e.Msg() + ": " + strings.Join(e.details, ", ")
	}
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.Message(FALLBACK_LNG)
}

// MsgIn returns the message in the requested language
// MsgIn 返回指定语言的消息
func (e *Code) MsgIn(lng string) string {
	return e.Lang.Message(lng)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// Is reports whether err carries the same business code, so errors.Is works on clones
// Is 判断业务码是否一致，使 errors.Is 对副本同样生效
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code
}

func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}
