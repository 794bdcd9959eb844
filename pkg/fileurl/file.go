package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AllowedExts document extensions accepted for upload
// AllowedExts 允许上传的文档后缀
var AllowedExts = []string{"pdf", "doc", "docx", "ppt", "pptx", "txt"}

var stripUnsafeRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// toASCII decomposes accented characters and drops everything outside ASCII
// toASCII 分解带重音字符并丢弃非 ASCII 字符
var toASCII = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})))

// windowsDeviceNames are rejected as bare names on any platform
var windowsDeviceNames = map[string]bool{
	"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
}

// SecureFilename reduces a client supplied name to a safe single path component
// Directory separators become underscores, so "../../a.pdf" yields "a.pdf".
// An empty result means nothing usable was left.
// SecureFilename 将客户端提供的文件名规整为安全的单级文件名，结果为空表示不可用
func SecureFilename(name string) string {
	s, _, err := transform.String(toASCII, name)
	if err != nil {
		s = name
	}
	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = stripUnsafeRe.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if base := strings.ToUpper(strings.SplitN(s, ".", 2)[0]); windowsDeviceNames[base] {
		s = "_" + s
	}
	return s
}

// GetFileExt returns the lower-case extension without the dot
// GetFileExt 获取小写且不带点的文件后缀
func GetFileExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// SplitExt splits name into its stem and extension, the extension keeps its dot
// SplitExt 拆分文件名主干与后缀（含点）
func SplitExt(name string) (stem, ext string) {
	ext = path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// IsAllowedExt reports whether name carries a whitelisted document extension
// IsAllowedExt 判断文件名是否带有白名单内的文档后缀
func IsAllowedExt(name string) bool {
	if !strings.Contains(name, ".") {
		return false
	}
	ext := GetFileExt(name)
	for _, e := range AllowedExts {
		if e == ext {
			return true
		}
	}
	return false
}

// IsSingleComponent reports whether name is a plain file name without any path element
// IsSingleComponent 判断 name 是否为不含任何路径成分的文件名
func IsSingleComponent(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "\x00")
}

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(path string, suffix string) string {
	if path == "" {
		return path
	}
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}
