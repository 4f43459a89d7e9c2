package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/errors"
	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/internal/common/response"
	"github.com/dumeirei/evcs-console/internal/middleware"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// maxErrorBody 读取失败响应体的上限
const maxErrorBody = 64 << 10

// proxyEndpoint 代理请求在日志与提示中的接口名
const proxyEndpoint = "proxy"

type proxyStateKey struct{}

// proxyState 单次代理请求的上下文
type proxyState struct {
	c       *gin.Context
	sid     string
	session evcs.Session // 未建立会话时为 nil
	path    string       // 相对 API 根路径
}

func stateFrom(ctx context.Context) *proxyState {
	st, _ := ctx.Value(proxyStateKey{}).(*proxyState)
	return st
}

// Proxy 把 /api 请求转发到后端
// @Summary 后端 API 代理
// @Description 转发到后端源站，按服务端会话补齐 Authorization、X-Tenant-Id、X-User-Id
// @Tags 控制台
// @Router /api/{path} [get]
func (h *Handler) Proxy(c *gin.Context) {
	st := &proxyState{
		c:       c,
		sid:     middleware.GetSessionID(c),
		session: middleware.GetSession(c),
		path:    c.Param("path"),
	}
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), proxyStateKey{}, st))
	h.proxy.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) newProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite:        h.rewrite,
		ModifyResponse: h.modifyResponse,
		ErrorHandler:   h.proxyError,
	}
}

// rewrite 改写出站请求
// 浏览器 cookie 只属于控制台，不转发给后端
func (h *Handler) rewrite(pr *httputil.ProxyRequest) {
	st := stateFrom(pr.In.Context())
	rel := ""
	if st != nil {
		rel = st.path
	}

	pr.Out.URL.Scheme = h.target.Scheme
	pr.Out.URL.Host = h.target.Host
	pr.Out.URL.Path = joinPath(h.target.Path, h.client.Config().Root, rel)
	pr.Out.URL.RawPath = ""
	pr.Out.Host = h.target.Host
	pr.Out.Header.Del("Cookie")
	pr.SetXForwarded()

	ctx := pr.Out.Context()
	if st != nil && st.session != nil {
		req := &evcs.Request{Path: rel, Header: pr.Out.Header}
		_ = evcs.EnrichHeaders(st.session, h.logger)(ctx, req)
	}
	if pr.Out.Header.Get(evcs.HeaderRequestID) == "" {
		if id := pr.In.Header.Get(evcs.HeaderRequestID); id != "" {
			pr.Out.Header.Set(evcs.HeaderRequestID, id)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(pr.Out.Header))
}

// modifyResponse 对失败响应套用与 API 客户端相同的分类策略
// 非开发中接口返回 401 时清除会话中的令牌
func (h *Handler) modifyResponse(resp *http.Response) error {
	method := resp.Request.Method
	if h.recorder != nil {
		h.recorder.RecordProxy(method, resp.StatusCode)
	}
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	st := stateFrom(resp.Request.Context())
	rel := ""
	if st != nil {
		rel = st.path
	}

	// 只预读前 maxErrorBody 字节用于分类，其余部分原样转发
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		_ = resp.Body.Close()
		return err
	}
	resp.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(body), resp.Body), Closer: resp.Body}

	serverMsg := ""
	if env, ok := evcs.ParseEnvelope(body); ok {
		serverMsg = env.Message
	}
	cl := evcs.Classify(resp.StatusCode, h.client.IsDeveloping(method, rel), serverMsg,
		fmt.Sprintf("Request failed with status code %d", resp.StatusCode))

	ctx := resp.Request.Context()
	h.notify(ctx, evcs.Notification{Level: cl.Level, Message: cl.Message, Endpoint: proxyEndpoint, Status: resp.StatusCode})

	if cl.Logout && st != nil && st.session != nil {
		if err := st.session.Delete(ctx, evcs.KeyToken); err != nil {
			h.logger.Error("清除令牌失败", logger.SessionID(st.sid), zap.Error(err))
		} else {
			h.logger.Info("后端拒绝令牌，已清除会话令牌", logger.SessionID(st.sid), logger.Path(rel))
		}
	}
	return nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// proxyError 后端不可达
func (h *Handler) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	if h.recorder != nil {
		h.recorder.RecordProxy(r.Method, http.StatusBadGateway)
	}
	st := stateFrom(r.Context())
	h.logger.Warn("代理请求失败", logger.Method(r.Method), logger.Path(r.URL.Path), zap.Error(err))
	h.notify(r.Context(), evcs.Notification{Level: evcs.LevelError, Message: evcs.MsgNetworkError, Endpoint: proxyEndpoint})

	if st != nil && st.c != nil {
		response.Fail(st.c, http.StatusBadGateway, errors.ErrUpstreamUnavailable)
		return
	}
	w.WriteHeader(http.StatusBadGateway)
}

func (h *Handler) notify(ctx context.Context, n evcs.Notification) {
	notify.Multi(h.counter(), h.notifier).Notify(ctx, n)
}

// joinPath 拼接路径并保留末尾斜杠
func joinPath(parts ...string) string {
	joined := path.Join(append([]string{"/"}, parts...)...)
	last := parts[len(parts)-1]
	if strings.HasSuffix(last, "/") && joined != "/" {
		joined += "/"
	}
	return joined
}
