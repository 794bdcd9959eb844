// Package object holds the value types shared by every storage backend
// Package object 存放各存储后端共用的值类型
package object

import (
	"io/fs"
	"strings"
	"time"
)

// ErrNotExist 对象不存在，与 fs.ErrNotExist 等价，可直接用 errors.Is 判断
var ErrNotExist = fs.ErrNotExist

// Info 存储对象的元信息
type Info struct {
	Key     string    // 完整键名，形如 <area>/<name>
	Size    int64     // 字节数
	ModTime time.Time // 最后修改时间
}

// Name returns the last path component of the key
// Name 返回键名的最后一段
func (i Info) Name() string {
	if idx := strings.LastIndex(i.Key, "/"); idx >= 0 {
		return i.Key[idx+1:]
	}
	return i.Key
}

// JoinKey joins a base prefix and a key with exactly one "/" between them
// JoinKey 拼接前缀与键名，保证中间只有一个 "/"
func JoinKey(base, key string) string {
	base = strings.Trim(base, "/")
	key = strings.TrimLeft(key, "/")
	if base == "" {
		return key
	}
	return base + "/" + key
}

// TrimBase is the inverse of JoinKey
// TrimBase 去掉 JoinKey 添加的前缀
func TrimBase(base, key string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return key
	}
	return strings.TrimPrefix(key, base+"/")
}
