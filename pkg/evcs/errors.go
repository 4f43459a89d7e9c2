package evcs

import (
	"fmt"
	"net/http"
)

// Kind 失败类别
type Kind string

// 失败类别
const (
	KindBusiness     Kind = "business"     // 信封业务失败
	KindUnauthorized Kind = "unauthorized" // HTTP 401
	KindForbidden    Kind = "forbidden"    // HTTP 403
	KindNotFound     Kind = "not_found"    // HTTP 404
	KindServer       Kind = "server"       // HTTP 500
	KindHTTP         Kind = "http"         // 其他非 2xx 状态
	KindTransport    Kind = "transport"    // 未收到响应
	KindDecode       Kind = "decode"       // 载荷与声明类型不符
)

// 用户可见的提示文案
const (
	MsgDeveloping   = "该功能正在开发中，暂不可用"
	MsgUnauthorized = "未授权，请重新登录"
	MsgForbidden    = "拒绝访问"
	MsgNotFound     = "请求地址不存在"
	MsgServerError  = "服务器内部错误"
	MsgNetworkError = "网络错误，请检查后端服务"
	MsgFallback     = "Error"
)

// Error API 调用失败
type Error struct {
	Kind      Kind
	Status    int    // HTTP 状态码，未收到响应时为 0
	Code      int    // 信封中的业务码
	Message   string // 已展示给用户的提示
	Method    string
	Path      string
	TraceID   string
	Tolerated bool // 开发中接口的 401，会话保持不变
	Err       error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	target := e.Method + " " + e.Path
	if e.Status > 0 {
		target = fmt.Sprintf("%s (%d %s)", target, e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		return fmt.Sprintf("evcs %s: %s: %s: %v", e.Kind, target, e.Message, e.Err)
	}
	return fmt.Sprintf("evcs %s: %s: %s", e.Kind, target, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按类别匹配哨兵错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Status == 0 && t.Kind == e.Kind
}

// 哨兵错误，配合 errors.Is 使用
var (
	ErrBusiness     = &Error{Kind: KindBusiness}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrServer       = &Error{Kind: KindServer}
	ErrHTTP         = &Error{Kind: KindHTTP}
	ErrTransport    = &Error{Kind: KindTransport}
	ErrDecode       = &Error{Kind: KindDecode}
)

// AsError 提取 *Error
func AsError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
