package utils

import (
	"encoding/json"
	"net/http"

	"lead_scoring/logger"
	"lead_scoring/models"
)

// WriteJSON 以指定状态码写出 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("写出响应失败", "error", err)
	}
}

// WriteSuccessResponse 写入 200 响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteErrorResponse 写入错误响应，detail 为给调用方看的具体原因
func WriteErrorResponse(w http.ResponseWriter, status, code int, detail string) {
	WriteJSON(w, status, models.NewErrorResponse(code, detail))
}
