package evcs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// 请求头
const (
	HeaderAuthorization = "Authorization"
	HeaderTenantID      = "X-Tenant-Id"
	HeaderUserID        = "X-User-Id"
	HeaderRequestID     = "X-Request-ID"
)

// Request 出站请求
type Request struct {
	Endpoint Endpoint
	Path     string // 相对 API 根路径
	Query    url.Values
	Body     interface{}
	Header   http.Header
}

// Response 入站响应
type Response struct {
	Request    *Request
	StatusCode int // 未收到响应时为 0
	Header     http.Header
	Body       []byte
	Envelope   *Envelope // 成功解码后填充
	Err        error     // 传输层错误
	Duration   time.Duration
}

// DecodeData 把信封 data 解码到 out
// 无信封或 data 为 null 时 out 保持零值
func (r *Response) DecodeData(out interface{}) error {
	if r.Envelope == nil || len(r.Envelope.Data) == 0 || string(r.Envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Envelope.Data, out); err != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  r.StatusCode,
			Message: fmt.Sprintf("响应数据格式错误: %T", out),
			Method:  r.Request.Endpoint.Method,
			Path:    r.Request.Path,
			TraceID: r.Envelope.TraceID,
			Err:     err,
		}
	}
	return nil
}

// RequestMiddleware 请求变换器，返回错误即中止请求
type RequestMiddleware func(ctx context.Context, req *Request) error

// ResponseMiddleware 响应变换器，返回错误即中止后续变换并把错误交给调用方
type ResponseMiddleware func(ctx context.Context, resp *Response) error

// Pipeline 有序的请求/响应变换链
type Pipeline struct {
	request  []RequestMiddleware
	response []ResponseMiddleware
}

// UseRequest 追加请求变换器
func (p *Pipeline) UseRequest(m ...RequestMiddleware) {
	p.request = append(p.request, m...)
}

// UseResponse 追加响应变换器
func (p *Pipeline) UseResponse(m ...ResponseMiddleware) {
	p.response = append(p.response, m...)
}

// ProcessRequest 依次执行请求变换器
func (p *Pipeline) ProcessRequest(ctx context.Context, req *Request) error {
	for _, m := range p.request {
		if err := m(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// ProcessResponse 依次执行响应变换器
func (p *Pipeline) ProcessResponse(ctx context.Context, resp *Response) error {
	for _, m := range p.response {
		if err := m(ctx, resp); err != nil {
			return err
		}
	}
	return nil
}

// RequestID 为请求附加 X-Request-ID
func RequestID() RequestMiddleware {
	return func(_ context.Context, req *Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.New().String())
		}
		return nil
	}
}

// EnrichHeaders 从会话读取令牌与租户/用户上下文并附加到请求头
//
// 存储中不存在的值不发送对应请求头；读取失败按不存在处理，从不中止请求。
func EnrichHeaders(sess Session, log *zap.Logger) RequestMiddleware {
	return func(ctx context.Context, req *Request) error {
		if sess == nil {
			return nil
		}
		read := func(key string) string {
			v, err := sess.Get(ctx, key)
			if err != nil {
				log.Warn("读取会话失败", zap.String("key", key), zap.Error(err))
				return ""
			}
			return v
		}
		if token := read(KeyToken); token != "" {
			req.Header.Set(HeaderAuthorization, "Bearer "+token)
		}
		if tenantID := read(KeyTenantID); tenantID != "" {
			req.Header.Set(HeaderTenantID, tenantID)
		}
		if userID := read(KeyUserID); userID != "" {
			req.Header.Set(HeaderUserID, userID)
		}
		return nil
	}
}

// PropagateTrace 注入 W3C 链路上下文
func PropagateTrace() RequestMiddleware {
	return func(ctx context.Context, req *Request) error {
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		return nil
	}
}
