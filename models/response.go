package models

// 响应码定义
const (
	// 成功
	CodeSuccess = 0

	// 客户端错误 (1000-1999)
	CodeInvalidParams = 1000 // 无效的参数
	CodeInvalidBody   = 1001 // 请求体无法解析

	// 服务端错误 (2000-2999)
	CodeServerError = 2000 // 服务器内部错误
	CodeModelError  = 2001 // 模型推理错误
	CodeStoreError  = 2002 // 线索存储错误
)

// 错误码对应的消息
var CodeMessages = map[int]string{
	CodeSuccess:       "success",
	CodeInvalidParams: "无效的参数",
	CodeInvalidBody:   "请求体格式错误",
	CodeServerError:   "服务器内部错误",
	CodeModelError:    "模型推理错误",
	CodeStoreError:    "线索存储错误",
}

// ErrorResponse 错误响应，Detail 为具体原因
type ErrorResponse struct {
	Code    int    `json:"code" example:"1000"`
	Message string `json:"message" example:"无效的参数"`
	Detail  string `json:"detail" example:"Invalid email or credit score"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	ModelColumns  int    `json:"model_columns" example:"24"`
	LeadsRecorded int    `json:"leads_recorded" example:"3"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, detail string) ErrorResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "未知错误"
	}
	return ErrorResponse{
		Code:    code,
		Message: message,
		Detail:  detail,
	}
}
