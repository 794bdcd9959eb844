package code

import "strings"

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

// Message returns the text for the given language, falling back to English
// Message 根据传入的语言返回相应的消息，无对应语言时回退到英文
func (l lang) Message(lng string) string {
	switch NormalizeLang(lng) {
	case "zh_cn":
		if l.zh_cn != "" {
			return l.zh_cn
		}
	}
	return l.en
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	return []string{"en", "zh_cn"}
}

// NormalizeLang maps request language hints (zh-CN, zh, EN) onto supported keys
// NormalizeLang 将请求中的语言标识（zh-CN、zh、EN）映射为支持的语言键
func NormalizeLang(lng string) string {
	lng = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lng), "-", "_"))
	switch {
	case lng == "zh" || strings.HasPrefix(lng, "zh_"):
		return "zh_cn"
	case lng == "":
		return FALLBACK_LNG
	}
	for _, l := range GetSupportedLanguages() {
		if l == lng {
			return l
		}
	}
	return FALLBACK_LNG
}
