// Package docops implements the document transforms behind each tool:
// merge, split, rotate, compress, secure and convert.
// Every operation takes source bytes plus parameters and returns output bytes or a *Failure.
//
// Package docops 实现各工具背后的文档转换：合并、拆分、旋转、压缩、加密、格式转换
// 所有操作均为 (输入字节, 参数) -> (输出字节 | *Failure)，不会向调用方抛出 panic
package docops

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// Operation names, also used as output file tags
// 操作名，同时作为输出文件名前缀
const (
	OpMerge    = "merged"
	OpSplit    = "split"
	OpRotate   = "rotated"
	OpCompress = "compressed"
	OpSecure   = "secured"
	OpConvert  = "converted"
)

// Kind 失败类型
type Kind int

const (
	KindInvalidDocument Kind = iota + 1 // 输入不是可处理的文档
	KindTooFewInputs                    // 合并时输入少于 2 个
	KindMalformedRange                  // 页码范围格式错误
	KindPageOutOfBounds                 // 页码超出文档范围
	KindInvalidRotation                 // 旋转角度不是 90 的倍数
	KindMissingPassword                 // 加密时未提供密码
	KindUnsupported                     // 不支持的转换组合
)

var kindNames = map[Kind]string{
	KindInvalidDocument: "invalid document",
	KindTooFewInputs:    "too few inputs",
	KindMalformedRange:  "malformed range",
	KindPageOutOfBounds: "page out of bounds",
	KindInvalidRotation: "invalid rotation",
	KindMissingPassword: "missing password",
	KindUnsupported:     "unsupported conversion",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsValidation reports whether the failure was caused by the caller's input parameters
// IsValidation 是否为调用方参数导致的失败（映射为 400）
func (k Kind) IsValidation() bool {
	return k != KindInvalidDocument
}

// Failure 文档操作的类型化错误
type Failure struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Op + ": " + f.Kind.String()
	}
	return f.Op + ": " + f.Kind.String() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(op string, kind Kind, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

func failf(op string, kind Kind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// AsFailure extracts a *Failure from err
// AsFailure 从 err 中取出 *Failure
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// guard turns a panic from the underlying PDF libraries into an InvalidDocument failure
// guard 将底层 PDF 库的 panic 转换为 InvalidDocument
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = failf(op, KindInvalidDocument, "panic: %v", r)
	}
}

func init() {
	// 不读写用户目录下的 pdfcpu 配置
	api.DisableConfigDir()
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount 返回 PDF 页数
func PageCount(input []byte) (n int, err error) {
	defer guard("pagecount", &err)

	n, err = pageCount(input)
	if err != nil {
		return 0, fail("pagecount", KindInvalidDocument, err)
	}
	return n, nil
}

func pageCount(input []byte) (int, error) {
	return api.PageCount(bytes.NewReader(input), newConfig())
}

func readSeekers(inputs [][]byte) []io.ReadSeeker {
	rs := make([]io.ReadSeeker, len(inputs))
	for i, b := range inputs {
		rs[i] = bytes.NewReader(b)
	}
	return rs
}
