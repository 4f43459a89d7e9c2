// Package errors 定义控制台错误码和错误处理
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown       = New(1000, "未知错误")
	ErrInvalidParams = New(1001, "参数错误")
	ErrNotFound      = New(1002, "资源不存在")
	ErrTooManyReqs   = New(1005, "请求过于频繁，请稍后再试")
	ErrInternalError = New(1006, "内部错误")
	ErrStorageError  = New(1007, "会话存储错误")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrLoginFailed      = New(2010, "登录失败")
)

// 后端调用错误码 (3000-3999)
var (
	ErrUpstreamBusiness    = New(3000, "后端业务失败")
	ErrUpstreamUnavailable = New(3001, "网络错误，请检查后端服务")
	ErrUpstreamServer      = New(3002, "服务器内部错误")
	ErrUpstreamDecode      = New(3003, "后端响应格式错误")
	ErrDeveloping          = New(3004, evcs.MsgDeveloping)
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

// FromAPI 把后端调用失败转换为应用错误与 HTTP 状态码
// 提示文案沿用客户端已展示给用户的内容
func FromAPI(err error) (*AppError, int) {
	apiErr, ok := evcs.AsError(err)
	if !ok {
		return GetAppError(err), http.StatusInternalServerError
	}

	switch apiErr.Kind {
	case evcs.KindBusiness:
		code := apiErr.Code
		if code == 0 {
			code = ErrUpstreamBusiness.Code
		}
		status := http.StatusOK
		if apiErr.Status >= http.StatusBadRequest {
			status = apiErr.Status
		}
		return Wrap(code, apiErr.Message, err), status
	case evcs.KindUnauthorized:
		if apiErr.Tolerated {
			return ErrDeveloping.WithError(err), http.StatusUnauthorized
		}
		return ErrUnauthorized.WithMessage(apiErr.Message).WithError(err), http.StatusUnauthorized
	case evcs.KindForbidden:
		return ErrPermissionDenied.WithMessage(apiErr.Message).WithError(err), http.StatusForbidden
	case evcs.KindNotFound:
		return ErrNotFound.WithMessage(apiErr.Message).WithError(err), http.StatusNotFound
	case evcs.KindServer:
		return ErrUpstreamServer.WithMessage(apiErr.Message).WithError(err), http.StatusInternalServerError
	case evcs.KindDecode:
		return ErrUpstreamDecode.WithError(err), http.StatusBadGateway
	case evcs.KindHTTP:
		return ErrUpstreamUnavailable.WithMessage(apiErr.Message).WithError(err), http.StatusBadGateway
	default:
		return ErrUpstreamUnavailable.WithMessage(apiErr.Message).WithError(err), http.StatusBadGateway
	}
}
