package docops

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merge concatenates the PDFs in order. At least two inputs are required.
// Merge 按顺序合并 PDF，至少需要两个输入
func Merge(inputs [][]byte) (out []byte, err error) {
	defer guard(OpMerge, &err)

	if len(inputs) < 2 {
		return nil, failf(OpMerge, KindTooFewInputs, "got %d input(s)", len(inputs))
	}
	for i, in := range inputs {
		if _, err := pageCount(in); err != nil {
			return nil, failf(OpMerge, KindInvalidDocument, "input %d: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readSeekers(inputs), &buf, false, newConfig()); err != nil {
		return nil, fail(OpMerge, KindInvalidDocument, err)
	}
	return buf.Bytes(), nil
}
