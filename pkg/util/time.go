package util

import (
	"strconv"
	"strings"
	"time"
)

// ExpiryLayout display format for share expiry times
// ExpiryLayout 分享过期时间的展示格式
const ExpiryLayout = "2006-01-02 15:04:05"

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// ParseDurationOr returns the parsed duration, or def when s is empty or invalid
// ParseDurationOr 解析时间字符串，为空或无效时返回 def
func ParseDurationOr(s string, def time.Duration) time.Duration {
	if strings.TrimSpace(s) == "" {
		return def
	}
	d, err := ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
