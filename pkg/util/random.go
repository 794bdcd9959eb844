package util

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// TokenURLSafe returns a random URL-safe token carrying nBytes of crypto/rand entropy
// 16 bytes encode to 22 characters.
// TokenURLSafe 生成包含 nBytes 字节随机熵的 URL 安全令牌，16 字节编码为 22 个字符
func TokenURLSafe(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GetRandomString 生成指定长度的随机字符串
func GetRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = charset[i%len(charset)]
			continue
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
