package domain

import (
	"errors"
	"time"
)

// ErrFileNotFound 存储区中不存在该文件
var ErrFileNotFound = errors.New("stored file not found")

// Area 临时文件存储区
type Area string

const (
	AreaWorking Area = "working" // 处理结果与上传暂存
	AreaShared  Area = "shared"  // 分享上传的文件
)

// StoredFile 存储区中的一个文件
type StoredFile struct {
	Area    Area
	Path    string // 存储键，形如 <dir>/<name>
	Name    string
	Size    int64
	ModTime time.Time
}

// Age returns how long ago the file was last modified
// Age 距最后修改的时长
func (f StoredFile) Age(now time.Time) time.Duration {
	return now.Sub(f.ModTime)
}
