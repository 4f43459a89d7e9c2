// Package evcs 充电运营管理后台 API 客户端
//
// 每次调用都经过显式的变换链：
//
//	请求: RequestID -> EnrichHeaders -> PropagateTrace -> 自定义请求变换器
//	响应: 自定义响应变换器 -> 传输失败分类 -> 信封解码
//
// 任一变换器返回错误即短路，错误原样返回给调用方。
// 失败在返回前已通过 Notifier 提示用户，不做自动重试。
package evcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/dumeirei/evcs-console/pkg/evcs"

// Config 客户端配置
type Config struct {
	BaseURL         string        // 后端源站，如 http://localhost:8080
	Root            string        // API 根路径，默认 /api
	Timeout         time.Duration // 默认 30 秒
	DevelopingPaths []string      // 兼容旧版：路径包含任一子串即视为开发中接口
	UserAgent       string
}

// Observer 调用结果观察者，kind 为空表示成功
type Observer func(endpoint string, status int, kind string, d time.Duration)

// TokenInspector 从令牌中解析租户与用户 ID
type TokenInspector func(token string) (tenantID, userID string, ok bool)

// Client API 客户端，可并发使用
type Client struct {
	cfg       Config
	http      *resty.Client
	session   Session
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger
	observer  Observer
	inspector TokenInspector
	tracer    trace.Tracer
	extraReq  []RequestMiddleware
	extraResp []ResponseMiddleware
	pipeline  *Pipeline
}

// Option 客户端选项
type Option func(*Client)

// WithSession 注入会话存储
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// WithNotifier 注入提示展示
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithNavigator 注入登录页跳转
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver 设置调用结果观察者
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTokenInspector 登录响应缺少用户信息时用于解析令牌
func WithTokenInspector(i TokenInspector) Option {
	return func(c *Client) { c.inspector = i }
}

// WithRequestMiddleware 追加请求变换器（位于内置变换器之后）
func WithRequestMiddleware(m ...RequestMiddleware) Option {
	return func(c *Client) { c.extraReq = append(c.extraReq, m...) }
}

// WithResponseMiddleware 追加响应变换器（位于分类与解码之前）
func WithResponseMiddleware(m ...ResponseMiddleware) Option {
	return func(c *Client) { c.extraResp = append(c.extraResp, m...) }
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = resty.NewWithClient(hc)
		}
	}
}

// New 创建客户端
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("evcs: BaseURL is required")
	}
	if cfg.Root == "" {
		cfg.Root = "/api"
	}
	cfg.Root = "/" + strings.Trim(cfg.Root, "/")
	if cfg.Root == "/" {
		cfg.Root = ""
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		cfg:       cfg,
		http:      resty.New(),
		session:   NewMemorySession(),
		notifier:  NotifierFunc(func(context.Context, Notification) {}),
		navigator: NavigatorFunc(func(context.Context) {}),
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(c.logger.Sugar()).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		c.http.SetHeader("User-Agent", cfg.UserAgent)
	}
	c.pipeline = c.buildPipeline()
	return c, nil
}

// Derive 返回共享传输层的客户端副本并应用选项
// 控制台服务据此为每个浏览器会话替换会话存储与提示器
func (c *Client) Derive(opts ...Option) *Client {
	cp := *c
	cp.extraReq = append([]RequestMiddleware(nil), c.extraReq...)
	cp.extraResp = append([]ResponseMiddleware(nil), c.extraResp...)
	for _, opt := range opts {
		opt(&cp)
	}
	cp.pipeline = cp.buildPipeline()
	return &cp
}

// WithSession 返回使用另一会话的客户端副本
func (c *Client) WithSession(s Session) *Client {
	return c.Derive(WithSession(s))
}

// Config 生效的客户端配置
func (c *Client) Config() Config {
	return c.cfg
}

// Notifier 当前提示器
func (c *Client) Notifier() Notifier {
	return c.notifier
}

// Session 当前会话存储
func (c *Client) Session() Session {
	return c.session
}

// Pipeline 当前变换链
func (c *Client) Pipeline() *Pipeline {
	return c.pipeline
}

func (c *Client) buildPipeline() *Pipeline {
	p := &Pipeline{}
	p.UseRequest(RequestID(), EnrichHeaders(c.session, c.logger), PropagateTrace())
	p.UseRequest(c.extraReq...)
	p.UseResponse(c.extraResp...)
	p.UseResponse(c.classifyTransport, c.decodeEnvelope)
	return p
}

// Do 执行一次请求并走完整变换链
// 返回错误时 Response 仍可能非 nil，便于调用方读取状态码
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Header == nil {
		req.Header = http.Header{}
	}

	ctx, span := c.tracer.Start(ctx, "evcs "+req.Endpoint.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Endpoint.Method),
			attribute.String("evcs.path", req.Path),
		),
	)
	defer span.End()

	if err := c.pipeline.ProcessRequest(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := c.send(ctx, req)
	err := c.pipeline.ProcessResponse(ctx, resp)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	kind := ""
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		kind = string(KindHTTP)
		if apiErr, ok := AsError(err); ok {
			kind = string(apiErr.Kind)
		}
		c.logger.Warn("API 调用失败",
			zap.String("endpoint", req.Endpoint.Name),
			zap.String("method", req.Endpoint.Method),
			zap.String("path", req.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("latency", resp.Duration),
			zap.Error(err),
		)
	} else {
		c.logger.Debug("API 请求",
			zap.String("endpoint", req.Endpoint.Name),
			zap.String("method", req.Endpoint.Method),
			zap.String("path", req.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("latency", resp.Duration),
		)
	}
	if c.observer != nil {
		c.observer(req.Endpoint.Name, resp.StatusCode, kind, resp.Duration)
	}
	return resp, err
}

// send 通过 resty 发送请求，不解释状态码
func (c *Client) send(ctx context.Context, req *Request) *Response {
	r := c.http.R().SetContext(ctx).SetHeaderMultiValues(req.Header)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	rr, err := r.Execute(req.Endpoint.Method, c.cfg.Root+req.Path)
	resp := &Response{Request: req, Err: err, Duration: time.Since(start)}
	if rr != nil && rr.RawResponse != nil {
		resp.StatusCode = rr.StatusCode()
		resp.Header = rr.Header()
		resp.Body = rr.Body()
	}
	if err != nil && resp.StatusCode != 0 {
		// 已收到响应但读取响应体失败，按传输失败处理
		resp.StatusCode = 0
	}
	return resp
}

func (c *Client) notify(ctx context.Context, n Notification) {
	c.notifier.Notify(ctx, n)
}

// forceLogin 清除令牌并跳转登录页
func (c *Client) forceLogin(ctx context.Context) {
	if err := c.session.Delete(ctx, KeyToken); err != nil {
		c.logger.Error("清除令牌失败", zap.Error(err))
	}
	c.navigator.RedirectToLogin(ctx)
}

// invoke 执行请求并把 data 解码为 T
func invoke[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var out T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := resp.DecodeData(&out); err != nil {
		return out, err
	}
	return out, nil
}

// exec 执行请求，忽略载荷
func exec(ctx context.Context, c *Client, req *Request) error {
	_, err := c.Do(ctx, req)
	return err
}

// Endpoint 接口声明
type Endpoint struct {
	Name       string // 稳定的指标/日志标识，如 tenant.list
	Method     string
	Pattern    string // fmt 格式路径，如 /tenant/%d
	Developing bool   // 开发中接口：401 只提示不退出登录
	Blob       bool   // 二进制下载，不解析信封
}

// Matches 判断请求是否命中该接口
// 模板中的 %d 段只匹配数字，其他动词匹配任意非空段
func (e Endpoint) Matches(method, path string) bool {
	if !strings.EqualFold(e.Method, method) {
		return false
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	want := strings.Split(strings.Trim(e.Pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		switch {
		case seg == "%d":
			if _, err := strconv.ParseInt(got[i], 10, 64); err != nil {
				return false
			}
		case strings.HasPrefix(seg, "%"):
			if got[i] == "" {
				return false
			}
		case seg != got[i]:
			return false
		}
	}
	return true
}

// Request 按参数填充路径生成请求
func (e Endpoint) Request(args ...interface{}) *Request {
	path := e.Pattern
	if len(args) > 0 {
		path = fmt.Sprintf(e.Pattern, args...)
	}
	return &Request{Endpoint: e, Path: path}
}
