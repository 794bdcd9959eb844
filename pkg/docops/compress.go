package docops

import (
	"bytes"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// CompressResult 压缩结果
type CompressResult struct {
	Data           []byte
	OriginalSize   int64
	CompressedSize int64
	Reduction      float64 // 体积减少百分比，保留两位小数，输出更大时为负
}

// Reduction returns the percentage saved, rounded to two decimals
// Reduction 计算体积减少百分比，保留两位小数
func Reduction(original, compressed int64) float64 {
	if original <= 0 {
		return 0
	}
	r := float64(original-compressed) / float64(original) * 100
	return math.Round(r*100) / 100
}

// Compress 优化 PDF 结构（去重资源、压缩内容流）
func Compress(input []byte) (res *CompressResult, err error) {
	defer guard(OpCompress, &err)

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(input), &buf, newConfig()); err != nil {
		return nil, fail(OpCompress, KindInvalidDocument, err)
	}

	orig := int64(len(input))
	comp := int64(buf.Len())
	return &CompressResult{
		Data:           buf.Bytes(),
		OriginalSize:   orig,
		CompressedSize: comp,
		Reduction:      Reduction(orig, comp),
	}, nil
}
