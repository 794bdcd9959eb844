package middleware

import (
	"github.com/haierkeys/doc-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 语言取自 ?lang= 或 lang 请求头，写入上下文的 "lang"（错误消息）与 "trans"（校验翻译）
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = code.NormalizeLang(lang)
		c.Set("lang", lang)

		// 校验翻译器只区分 zh / en
		tag := "en"
		if lang == "zh_cn" {
			tag = "zh"
		}
		if uni != nil {
			if trans, found := uni.GetTranslator(tag); found {
				c.Set("trans", trans)
			}
		}

		c.Next()
	}
}
