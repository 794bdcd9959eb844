package docops

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
)

// DefaultConvertTarget 未指定目标格式时的默认值
const DefaultConvertTarget = "pdf"

// CanConvert reports whether srcExt -> target is a supported pair
// CanConvert 是否支持 srcExt -> target 的转换
func CanConvert(srcExt, target string) bool {
	srcExt = strings.ToLower(srcExt)
	target = strings.ToLower(target)
	switch {
	case srcExt == "pdf" && target == "docx":
		return true
	case (srcExt == "doc" || srcExt == "docx") && target == "pdf":
		return true
	}
	return false
}

// Convert transforms input of type srcExt into target. Only pdf->docx and doc/docx->pdf are supported.
// Convert 格式转换，仅支持 pdf->docx 与 doc/docx->pdf
func Convert(input []byte, srcExt, target string) (out []byte, err error) {
	defer guard(OpConvert, &err)

	srcExt = strings.ToLower(srcExt)
	target = strings.ToLower(target)
	if !CanConvert(srcExt, target) {
		return nil, failf(OpConvert, KindUnsupported, "%s to %s", srcExt, target)
	}

	if srcExt == "pdf" {
		pages, err := extractPDFText(input)
		if err != nil {
			return nil, fail(OpConvert, KindInvalidDocument, err)
		}
		out, err := writeDocx(pages)
		if err != nil {
			return nil, fail(OpConvert, KindInvalidDocument, err)
		}
		return out, nil
	}

	paragraphs, err := readDocxParagraphs(input)
	if err != nil {
		return nil, fail(OpConvert, KindInvalidDocument, err)
	}
	out, err = renderParagraphsPDF(paragraphs)
	if err != nil {
		return nil, fail(OpConvert, KindInvalidDocument, err)
	}
	return out, nil
}

// extractPDFText 逐页提取纯文本
func extractPDFText(input []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return nil, err
	}

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// renderParagraphsPDF lays paragraphs out on Letter pages, wrapping long lines and skipping blank ones
// renderParagraphsPDF 将段落排版到 Letter 页面，长行自动换行，空段落跳过
func renderParagraphsPDF(paragraphs []string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(50, 42, 50)
	doc.SetAutoPageBreak(true, 42)
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, para := range paragraphs {
		if strings.TrimSpace(para) == "" {
			continue
		}
		doc.MultiCell(0, 20, tr(strings.ReplaceAll(para, "\t", "    ")), "", "L", false)
	}

	if err := doc.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
