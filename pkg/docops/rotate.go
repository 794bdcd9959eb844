package docops

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultRotation 未指定角度时的默认值
const DefaultRotation = 90

// NormalizeRotation maps any multiple of 90 onto 0, 90, 180 or 270
// NormalizeRotation 将 90 的倍数归一到 0/90/180/270
func NormalizeRotation(degrees int) (int, error) {
	if degrees%90 != 0 {
		return 0, failf(OpRotate, KindInvalidRotation, "%d is not a multiple of 90", degrees)
	}
	return ((degrees % 360) + 360) % 360, nil
}

// Rotate 将所有页面顺时针旋转 degrees 度
func Rotate(input []byte, degrees int) (out []byte, err error) {
	defer guard(OpRotate, &err)

	rotation, err := NormalizeRotation(degrees)
	if err != nil {
		return nil, err
	}
	if _, err := pageCount(input); err != nil {
		return nil, fail(OpRotate, KindInvalidDocument, err)
	}
	if rotation == 0 {
		return input, nil
	}

	var buf bytes.Buffer
	if err := api.Rotate(bytes.NewReader(input), &buf, rotation, nil, newConfig()); err != nil {
		return nil, fail(OpRotate, KindInvalidDocument, err)
	}
	return buf.Bytes(), nil
}
