package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 合并所有错误信息
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// MapsToString 以字段名为键的错误信息
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid binds query / form / multipart values into obj and validates it,
// translating validator messages with the translator set by the lang middleware.
// BindAndValid 绑定请求参数并校验，使用语言中间件设置的翻译器翻译错误
func BindAndValid(c *gin.Context, obj any) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(obj)
	if err == nil {
		return true, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "request", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value("trans").(ut.Translator)
	for _, fe := range validationErrors {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}
	return false, errs
}
