package code

import "net/http"

var (
	Success = NewSuss(200, lang{en: "Success", zh_cn: "成功"})

	Failed               = NewError(400, http.StatusBadRequest, lang{en: "Request failed", zh_cn: "请求失败"})
	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI     = NewError(404, http.StatusNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams   = NewError(405, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorServerBusy      = NewError(503, http.StatusInternalServerError, lang{en: "Server busy, please try again later", zh_cn: "服务繁忙，请稍后再试"})
)

// Upload validation // 上传校验
var (
	ErrorUploadMissing      = NewError(1001, http.StatusBadRequest, lang{en: "Please upload a file", zh_cn: "请上传文件"})
	ErrorUploadInvalidFile  = NewError(1002, http.StatusBadRequest, lang{en: "Please upload a valid PDF file", zh_cn: "请上传有效的 PDF 文件"})
	ErrorUploadExtNotAllow  = NewError(1003, http.StatusBadRequest, lang{en: "File type is not allowed", zh_cn: "不允许的文件类型"})
	ErrorUploadNameInvalid  = NewError(1004, http.StatusBadRequest, lang{en: "Invalid file name", zh_cn: "文件名无效"})
	ErrorUploadTooLarge     = NewError(1005, http.StatusBadRequest, lang{en: "File is too large", zh_cn: "文件过大"})
	ErrorMergeTooFewFiles   = NewError(1006, http.StatusBadRequest, lang{en: "Please upload at least 2 PDF files", zh_cn: "请至少上传 2 个 PDF 文件"})
	ErrorPasswordRequired   = NewError(1007, http.StatusBadRequest, lang{en: "Please provide a password", zh_cn: "请输入密码"})
	ErrorPageRangeMalformed = NewError(1008, http.StatusBadRequest, lang{en: "Malformed page range", zh_cn: "页码范围格式错误"})
	ErrorPageOutOfBounds    = NewError(1009, http.StatusBadRequest, lang{en: "Page number out of range", zh_cn: "页码超出范围"})
	ErrorRotationInvalid    = NewError(1010, http.StatusBadRequest, lang{en: "Rotation must be a multiple of 90", zh_cn: "旋转角度必须为 90 的倍数"})
	ErrorConvertUnsupported = NewError(1011, http.StatusBadRequest, lang{en: "Conversion not supported", zh_cn: "不支持该转换"})
	ErrorTextRequired       = NewError(1012, http.StatusBadRequest, lang{en: "Please provide text content", zh_cn: "请输入文本内容"})
	ErrorShareTypeInvalid   = NewError(1013, http.StatusBadRequest, lang{en: "Unknown share type", zh_cn: "未知的分享类型"})
)

// Document operations // 文档操作
var (
	ErrorOperationFailed = NewError(2001, http.StatusInternalServerError, lang{en: "Document operation failed", zh_cn: "文档处理失败"})
	ErrorInvalidDocument = NewError(2002, http.StatusInternalServerError, lang{en: "Invalid or damaged document", zh_cn: "文档无效或已损坏"})
)

// File store and shares // 文件存储与分享
var (
	ErrorFileNotFound       = NewError(3001, http.StatusNotFound, lang{en: "File not found", zh_cn: "文件不存在"})
	ErrorShareNotFound      = NewError(3002, http.StatusNotFound, lang{en: "Link not found or expired", zh_cn: "链接不存在或已过期"})
	ErrorShareExpired       = NewError(3003, http.StatusGone, lang{en: "Link expired", zh_cn: "链接已过期"})
	ErrorStorageWrite       = NewError(3004, http.StatusInternalServerError, lang{en: "Failed to store file", zh_cn: "文件保存失败"})
	ErrorStorageRead        = NewError(3005, http.StatusInternalServerError, lang{en: "Failed to read file", zh_cn: "文件读取失败"})
	ErrorInvalidStorageType = NewError(3006, http.StatusInternalServerError, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorShareCreate        = NewError(3007, http.StatusInternalServerError, lang{en: "Failed to create share link", zh_cn: "分享链接创建失败"})
)
