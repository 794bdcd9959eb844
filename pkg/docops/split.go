package docops

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// SplitResult 拆分结果
type SplitResult struct {
	Data       []byte
	Pages      []int // 实际输出的页码，按输出顺序
	TotalPages int   // 源文档总页数
}

// ParsePageRanges parses a comma separated list of "n" and "a-b" items into 1-based page numbers.
// Order is preserved and duplicates are kept. An empty string selects every page.
//
// ParsePageRanges 解析逗号分隔的 "n" / "a-b" 页码范围，保留顺序与重复
// 空字符串表示全部页面
func ParsePageRanges(ranges string, totalPages int) ([]int, error) {
	ranges = strings.TrimSpace(ranges)
	if ranges == "" {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	var pages []int
	for _, item := range strings.Split(ranges, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, failf(OpSplit, KindMalformedRange, "empty item in %q", ranges)
		}

		start, end, err := parseRangeItem(item)
		if err != nil {
			return nil, err
		}
		if start < 1 || end > totalPages {
			return nil, failf(OpSplit, KindPageOutOfBounds, "%q outside 1-%d", item, totalPages)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

func parseRangeItem(item string) (int, int, error) {
	lo, hi, isRange := strings.Cut(item, "-")
	if !isRange {
		n, err := strconv.Atoi(item)
		if err != nil {
			return 0, 0, failf(OpSplit, KindMalformedRange, "%q is not a page number", item)
		}
		return n, n, nil
	}

	start, err1 := strconv.Atoi(strings.TrimSpace(lo))
	end, err2 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil {
		return 0, 0, failf(OpSplit, KindMalformedRange, "%q is not a range", item)
	}
	if start > end {
		return 0, 0, failf(OpSplit, KindMalformedRange, "%q is descending", item)
	}
	return start, end, nil
}

// Split 按页码范围抽取页面生成新 PDF
func Split(input []byte, ranges string) (res *SplitResult, err error) {
	defer guard(OpSplit, &err)

	total, err := pageCount(input)
	if err != nil {
		return nil, fail(OpSplit, KindInvalidDocument, err)
	}

	pages, err := ParsePageRanges(ranges, total)
	if err != nil {
		return nil, err
	}

	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}

	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(input), &buf, selected, newConfig()); err != nil {
		return nil, fail(OpSplit, KindInvalidDocument, err)
	}

	return &SplitResult{Data: buf.Bytes(), Pages: pages, TotalPages: total}, nil
}
