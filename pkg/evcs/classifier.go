package evcs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Classification 传输失败的分类结果
type Classification struct {
	Kind      Kind
	Level     Level
	Message   string
	Logout    bool // 清除令牌并跳转登录页
	Tolerated bool // 开发中接口的 401
}

// Classify 按 HTTP 状态对传输失败分类
//
// status 为 0 表示未收到响应。serverMsg 为响应体中的 message，
// transportMsg 为传输层错误描述，二者均可为空。
func Classify(status int, developing bool, serverMsg, transportMsg string) Classification {
	switch status {
	case http.StatusUnauthorized:
		if developing {
			return Classification{Kind: KindUnauthorized, Level: LevelWarning, Message: MsgDeveloping, Tolerated: true}
		}
		return Classification{Kind: KindUnauthorized, Level: LevelError, Message: MsgUnauthorized, Logout: true}
	case http.StatusForbidden:
		return Classification{Kind: KindForbidden, Level: LevelError, Message: MsgForbidden}
	case http.StatusNotFound:
		return Classification{Kind: KindNotFound, Level: LevelError, Message: MsgNotFound}
	case http.StatusInternalServerError:
		msg := serverMsg
		if msg == "" {
			msg = MsgServerError
		}
		return Classification{Kind: KindServer, Level: LevelError, Message: msg}
	}

	kind := KindHTTP
	if status == 0 {
		kind = KindTransport
	}
	return Classification{Kind: kind, Level: LevelError, Message: firstNonEmpty(serverMsg, transportMsg, MsgNetworkError)}
}

// classifyTransport 传输失败分类中间件
func (c *Client) classifyTransport(ctx context.Context, resp *Response) error {
	if resp.Err == nil && accepted(resp.StatusCode) {
		return nil
	}

	req := resp.Request
	serverMsg, traceID := failureDetails(resp.Body)
	transportMsg := ""
	if resp.Err != nil {
		transportMsg = resp.Err.Error()
	} else {
		transportMsg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}

	cl := Classify(resp.StatusCode, c.isDeveloping(req), serverMsg, transportMsg)
	c.notify(ctx, Notification{
		Level:    cl.Level,
		Message:  cl.Message,
		Endpoint: req.Endpoint.Name,
		Status:   resp.StatusCode,
	})
	if cl.Logout {
		c.forceLogin(ctx)
	}

	return &Error{
		Kind:      cl.Kind,
		Status:    resp.StatusCode,
		Message:   cl.Message,
		Method:    req.Endpoint.Method,
		Path:      req.Path,
		TraceID:   traceID,
		Tolerated: cl.Tolerated,
		Err:       resp.Err,
	}
}

// isDeveloping 判断接口是否处于开发中
// 以接口声明为准，兼容按路径子串配置
func (c *Client) isDeveloping(req *Request) bool {
	return req.Endpoint.Developing || c.developingPath(req.Path)
}

// IsDeveloping 按方法与路径判断未经类型化接口发出的请求是否命中开发中接口
// path 相对 API 根路径，供反向代理使用
func (c *Client) IsDeveloping(method, path string) bool {
	for _, e := range DevelopingEndpoints() {
		if e.Matches(method, path) {
			return true
		}
	}
	return c.developingPath(path)
}

func (c *Client) developingPath(path string) bool {
	for _, p := range c.cfg.DevelopingPaths {
		if p != "" && strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// failureDetails 从失败响应体中提取 message 与 traceId
func failureDetails(body []byte) (string, string) {
	var v struct {
		Message string `json:"message"`
		TraceID string `json:"traceId"`
	}
	if len(body) == 0 || json.Unmarshal(body, &v) != nil {
		return "", ""
	}
	return v.Message, v.TraceID
}

func accepted(status int) bool {
	return status >= 200 && status < 300
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
