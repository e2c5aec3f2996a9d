package controllers

import (
	"encoding/json"
	"net/http"
)

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse 分页响应结构
type PaginatedResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"100"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"10"`
}

// writeJSON 按指定HTTP状态码输出JSON响应
func writeJSON(w http.ResponseWriter, httpStatus int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(body)
}

// SuccessResponse 成功响应
func SuccessResponse(w http.ResponseWriter, msg string, data interface{}) {
	writeJSON(w, http.StatusOK, &APIResponse{Status: 0, Msg: msg, Data: data})
}

// BadRequestResponse 参数错误响应
func BadRequestResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, &APIResponse{Status: 1, Msg: msg})
}

// NotFoundResponse 资源不存在响应
func NotFoundResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, &APIResponse{Status: 1, Msg: msg})
}

// InternalErrorResponse 服务内部错误响应
func InternalErrorResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, &APIResponse{Status: 1, Msg: msg})
}
