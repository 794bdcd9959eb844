package dto

// ShareCreateRequest 创建分享请求
// share_type=file 时通过 multipart 字段 file 上传文件
type ShareCreateRequest struct {
	ShareType   string `form:"share_type" json:"share_type"`     // file 或 text，默认 file
	TextContent string `form:"text_content" json:"text_content"` // 文本分享内容
}

// ShareCreateResponse 创建分享响应
type ShareCreateResponse struct {
	Success   bool   `json:"success"`
	ShareLink string `json:"share_link"` // 完整分享链接
	Expiry    string `json:"expiry"`     // 过期时间，格式 2006-01-02 15:04:05
}

// SharedPathRequest /shared/:id 路径参数
type SharedPathRequest struct {
	ID string `uri:"id" binding:"required,max=128"`
}
