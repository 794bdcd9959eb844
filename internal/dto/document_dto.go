package dto

// SplitRequest 拆分请求参数，文件通过 multipart 字段 file 上传
type SplitRequest struct {
	Pages string `form:"pages" json:"pages" binding:"max=512"` // 页码范围，如 1-3,5；为空表示全部页面
}

// RotateRequest 旋转请求参数
type RotateRequest struct {
	Rotation string `form:"rotation" json:"rotation" binding:"max=8"` // 旋转角度，默认 90
}

// SecureRequest 加密请求参数
type SecureRequest struct {
	Password string `form:"password" json:"password" binding:"max=127"` // 打开文档的密码
}

// ConvertRequest 转换请求参数
type ConvertRequest struct {
	ConvertTo string `form:"convert_to" json:"convert_to" binding:"omitempty,docext"` // 目标格式，默认 pdf
}

// OperationResponse 文档操作成功响应
type OperationResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
}

// SplitResponse 拆分成功响应
type SplitResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
	TotalPages  int    `json:"total_pages"` // 源文档总页数
}

// CompressResponse 压缩成功响应
type CompressResponse struct {
	Success        bool    `json:"success"`
	DownloadURL    string  `json:"download_url"`
	OriginalSize   int64   `json:"original_size"`
	CompressedSize int64   `json:"compressed_size"`
	Reduction      float64 `json:"reduction"` // 百分比，两位小数
}
