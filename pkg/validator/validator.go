package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/haierkeys/doc-toolbox-service/pkg/fileurl"
)

// CustomValidator gin 的结构体验证器，懒加载 validator/v10
type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// ValidateStruct 只校验结构体（或其指针），其余类型直接放行
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) == reflect.Struct {
		v.lazyinit()
		if err := v.Validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()
	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// RegisterCustom 向 gin 当前使用的验证器注册自定义规则
//
//	docext: 字段值是允许上传的文件扩展名（不含点，大小写不敏感）
func RegisterCustom() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("docext", func(fl validator.FieldLevel) bool {
			ext := strings.TrimPrefix(fl.Field().String(), ".")
			return fileurl.IsAllowedExt("x." + ext)
		})
	}
}
