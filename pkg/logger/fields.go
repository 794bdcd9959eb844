package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldOperation 文档操作名称字段（merge/split/...）
	FieldOperation = "operation"

	// FieldPath 文件路径字段
	FieldPath = "path"

	// FieldArea 存储区域字段（working/shared）
	FieldArea = "area"

	// FieldShareID 分享 ID 字段
	FieldShareID = "shareId"

	// FieldShareKind 分享类型字段
	FieldShareKind = "shareKind"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldSize 文件大小字段
	FieldSize = "size"

	// FieldBucket 存储桶名称字段
	FieldBucket = "bucket"

	// FieldFileKey 文件键字段
	FieldFileKey = "fileKey"

	// FieldTask 任务名称字段
	FieldTask = "task"
)
