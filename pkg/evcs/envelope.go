package evcs

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Envelope 后端统一响应信封
// 所有字段均可缺省，缺省与零值通过指针区分
type Envelope struct {
	Code      *int            `json:"code,omitempty"`
	Success   *bool           `json:"success,omitempty"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	TraceID   string          `json:"traceId,omitempty"`
	// CodeText 非数字业务码的原文，如 "E1001"
	CodeText string `json:"-"`
}

// UnmarshalJSON 宽松解析
// 后端个别接口以字符串返回 code/success，类型不符时按语义转换，不整体丢弃
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw struct {
		Code      json.RawMessage `json:"code"`
		Success   json.RawMessage `json:"success"`
		Message   FlexString      `json:"message"`
		Data      json.RawMessage `json:"data"`
		Timestamp json.RawMessage `json:"timestamp"`
		TraceID   FlexString      `json:"traceId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Envelope{
		Message:   string(raw.Message),
		Data:      raw.Data,
		Timestamp: raw.Timestamp,
		TraceID:   string(raw.TraceID),
	}
	e.Code, e.CodeText = parseCode(raw.Code)
	e.Success = parseSuccess(raw.Success)
	return nil
}

// parseCode 数字或数字字符串解析为业务码，其余非空值保留原文
func parseCode(raw json.RawMessage) (*int, string) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, ""
	}
	var str string
	if json.Unmarshal(raw, &str) == nil {
		s = strings.TrimSpace(str)
		if s == "" {
			return nil, ""
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		n := int(f)
		return &n, ""
	}
	return nil, s
}

// parseSuccess 布尔、"true"/"false" 字符串与 0/1 均可识别，无法识别视为缺省
func parseSuccess(raw json.RawMessage) *bool {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b
		}
	case float64:
		b := t != 0
		return &b
	}
	return nil
}

// Failed 判断信封是否表示失败
//
// success 显式为 false 即失败；success 缺省时，code 存在且不等于 200 为失败，
// 非数字的 code 一律视为失败。
func (e *Envelope) Failed() bool {
	if e == nil {
		return false
	}
	if e.Success != nil {
		return !*e.Success
	}
	if e.CodeText != "" {
		return true
	}
	return e.Code != nil && *e.Code != http.StatusOK
}

// looksLikeObject 响应体以 { 开头
func looksLikeObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// FailureMessage 失败提示，缺省时返回兜底文案
func (e *Envelope) FailureMessage() string {
	if e != nil && e.Message != "" {
		return e.Message
	}
	return MsgFallback
}

// ParseEnvelope 解析响应体为信封
// 响应体为空、不是 JSON 对象或 JSON 语法错误时返回 false
func ParseEnvelope(body []byte) (*Envelope, bool) {
	if !looksLikeObject(body) {
		return nil, false
	}
	var env Envelope
	if err := json.Unmarshal(bytes.TrimSpace(body), &env); err != nil {
		return nil, false
	}
	return &env, true
}

// decodeEnvelope 信封解码中间件
//
// 成功时把信封挂到 Response 上；失败时提示用户并返回业务错误，
// 仅当传输状态恰为 401 时清除令牌并跳转登录页。
func (c *Client) decodeEnvelope(ctx context.Context, resp *Response) error {
	if resp.Request.Endpoint.Blob {
		return nil
	}
	env, ok := ParseEnvelope(resp.Body)
	if !ok {
		if looksLikeObject(resp.Body) {
			// 形似信封却无法解析，不能当作成功
			return &Error{
				Kind:    KindDecode,
				Status:  resp.StatusCode,
				Message: "响应信封格式错误",
				Method:  resp.Request.Endpoint.Method,
				Path:    resp.Request.Path,
			}
		}
		return nil
	}
	resp.Envelope = env
	if !env.Failed() {
		return nil
	}

	msg := env.FailureMessage()
	c.notify(ctx, Notification{
		Level:    LevelError,
		Message:  msg,
		Endpoint: resp.Request.Endpoint.Name,
		Status:   resp.StatusCode,
	})
	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogin(ctx)
	}

	apiErr := &Error{
		Kind:    KindBusiness,
		Status:  resp.StatusCode,
		Message: msg,
		Method:  resp.Request.Endpoint.Method,
		Path:    resp.Request.Path,
		TraceID: env.TraceID,
	}
	if env.Code != nil {
		apiErr.Code = *env.Code
	}
	return apiErr
}
