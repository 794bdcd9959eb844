package docops

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Secure encrypts the PDF with AES-256; the password opens the document and owns its permissions
// Secure 使用 AES-256 加密 PDF，密码同时作为用户密码与所有者密码
func Secure(input []byte, password string) (out []byte, err error) {
	defer guard(OpSecure, &err)

	if password == "" {
		return nil, failf(OpSecure, KindMissingPassword, "password is empty")
	}
	if _, err := pageCount(input); err != nil {
		return nil, fail(OpSecure, KindInvalidDocument, err)
	}

	conf := model.NewAESConfiguration(password, password, 256)
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(input), &buf, conf); err != nil {
		return nil, fail(OpSecure, KindInvalidDocument, err)
	}
	return buf.Bytes(), nil
}
