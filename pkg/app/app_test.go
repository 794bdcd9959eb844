package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/merge", nil)
	return c, w
}

func TestToResponse_Success(t *testing.T) {
	c, w := newCtx()
	NewResponse(c).ToResponse(code.Success.WithData(gin.H{"success": true, "download_url": "/download/x.pdf"}))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/download/x.pdf", body["download_url"])
}

func TestToResponse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		code   *code.Code
		lang   string
		status int
		msg    string
	}{
		{"validation", code.ErrorMergeTooFewFiles, "", http.StatusBadRequest, "Please upload at least 2 PDF files"},
		{"details", code.ErrorOperationFailed.WithDetails("boom"), "", http.StatusInternalServerError, "Document operation failed: boom"},
		{"not found", code.ErrorFileNotFound, "", http.StatusNotFound, "File not found"},
		{"expired", code.ErrorShareExpired, "", http.StatusGone, "Link expired"},
		{"zh", code.ErrorFileNotFound, "zh_cn", http.StatusNotFound, "文件不存在"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newCtx()
			if tt.lang != "" {
				c.Set("lang", tt.lang)
			}
			NewResponse(c).ToResponse(tt.code)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorRes
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Error)
			assert.Equal(t, tt.code.Code(), body.Code)
		})
	}
}

func TestToErrorText(t *testing.T) {
	c, w := newCtx()
	NewResponse(c).ToErrorText(code.ErrorShareNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Link not found or expired", w.Body.String())
}

func TestGetAccessHost(t *testing.T) {
	c, _ := newCtx()
	c.Request.Host = "example.com:5000"
	assert.Equal(t, "http://example.com:5000", GetAccessHost(c))

	c.Request.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com:5000", GetAccessHost(c))
}

func TestValidErrors(t *testing.T) {
	errs := ValidErrors{{Key: "pages", Message: "bad"}, {Key: "file", Message: "missing"}}
	assert.Equal(t, "bad, missing", errs.ErrorsToString())
	assert.Equal(t, map[string]string{"pages": "bad", "file": "missing"}, errs.MapsToString())
	assert.Equal(t, "bad,missing", errs.Error())
}
