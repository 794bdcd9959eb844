// Package domain defines the domain models shared by services and handlers
// Package domain 定义服务层与接口层共用的领域模型
package domain

import (
	"errors"
	"time"
)

var (
	// ErrShareNotFound id was never issued, or its expiry was already reported once
	// ErrShareNotFound 分享不存在（或过期已被报告过一次）
	ErrShareNotFound = errors.New("share not found")
	// ErrShareExpired id existed but is past its expiry; the record is removed when this is returned
	// ErrShareExpired 分享已过期，返回该错误的同时记录被删除
	ErrShareExpired = errors.New("share has expired")
)

// ShareKind 分享类型
type ShareKind string

const (
	ShareKindFile ShareKind = "file" // 文件分享
	ShareKindText ShareKind = "text" // 文本分享
)

// Valid reports whether k is a known share kind
// Valid 是否为已知分享类型
func (k ShareKind) Valid() bool {
	return k == ShareKindFile || k == ShareKindText
}

// SharePayload 分享内容
// File 分享填写 StoredPath 与 DisplayName；Text 分享填写 Text
type SharePayload struct {
	StoredPath  string // 共享区中的存储路径，形如 shared/<token>_<name>
	DisplayName string // 下载时展示的原始文件名
	Text        string // 文本内容
}

// ShareRecord 分享记录，创建后不可修改，过期时间不可续期
type ShareRecord struct {
	ID        string
	Kind      ShareKind
	Payload   SharePayload
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports now > ExpiresAt; a record is still live at exactly ExpiresAt
// IsExpired 当前时间严格晚于 ExpiresAt 时视为过期
func (r *ShareRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
