// Package response 提供与后端一致的统一响应信封
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dumeirei/evcs-console/internal/common/errors"
)

// CodeSuccess 成功业务码，与后端保持一致
const CodeSuccess = 200

// TraceIDKey gin 上下文中的链路ID键
const TraceIDKey = "trace_id"

// Response API 统一响应结构
type Response struct {
	Code      int         `json:"code"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
	TraceID   string      `json:"traceId,omitempty"`
}

func write(c *gin.Context, status int, resp Response) {
	resp.Timestamp = time.Now().UnixMilli()
	if resp.TraceID == "" {
		resp.TraceID = c.GetString(TraceIDKey)
	}
	c.JSON(status, resp)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{
		Code:    CodeSuccess,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, Response{
		Code:    CodeSuccess,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 业务失败响应，HTTP 状态为 200
func Error(c *gin.Context, code int, message string) {
	write(c, http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// Fail 按状态码输出应用错误
func Fail(c *gin.Context, status int, err *apperrors.AppError) {
	write(c, status, Response{
		Code:    err.Code,
		Message: err.Message,
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// Unauthorized 未授权
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	write(c, http.StatusUnauthorized, Response{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	write(c, http.StatusNotFound, Response{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	write(c, http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

// TooManyRequests 请求过于频繁
func TooManyRequests(c *gin.Context, message string) {
	write(c, http.StatusTooManyRequests, Response{
		Code:    http.StatusTooManyRequests,
		Message: message,
	})
}

// ServiceUnavailable 依赖不可用
func ServiceUnavailable(c *gin.Context, message string) {
	write(c, http.StatusServiceUnavailable, Response{
		Code:    http.StatusServiceUnavailable,
		Message: message,
	})
}
