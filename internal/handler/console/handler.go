// Package console 提供控制台服务的 HTTP Handler
//
// 浏览器只持有不透明的会话 cookie，令牌与租户/用户 ID 保存在服务端会话中，
// 经 /api 反向代理转发时由服务端补齐请求头。
package console

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/jwt"
	"github.com/dumeirei/evcs-console/internal/middleware"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// Recorder 控制台指标
type Recorder interface {
	notify.Counter
	RecordProxy(method string, status int)
}

// Config Handler 配置
type Config struct {
	Client      *evcs.Client
	Session     *middleware.SessionConfig
	Inspector   *jwt.Inspector // 可选，用于会话到期时间
	Notifier    evcs.Notifier  // 服务端提示输出，通常为日志
	Recorder    Recorder       // 可选
	DistDir     string
	VersionFile string
	LoginGuards []gin.HandlerFunc // 位于登录之前，如限流
	Logger      *zap.Logger
}

// Handler 控制台处理器
type Handler struct {
	client      *evcs.Client
	session     *middleware.SessionConfig
	inspector   *jwt.Inspector
	notifier    evcs.Notifier
	recorder    Recorder
	distDir     string
	versionFile string
	loginGuards []gin.HandlerFunc
	logger      *zap.Logger
	target      *url.URL
	proxy       *httputil.ReverseProxy
}

// NewHandler 创建控制台处理器
func NewHandler(cfg *Config) (*Handler, error) {
	target, err := url.Parse(cfg.Client.Config().BaseURL)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		client:      cfg.Client,
		session:     cfg.Session,
		inspector:   cfg.Inspector,
		notifier:    cfg.Notifier,
		recorder:    cfg.Recorder,
		distDir:     cfg.DistDir,
		versionFile: cfg.VersionFile,
		loginGuards: cfg.LoginGuards,
		logger:      cfg.Logger,
		target:      target,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.notifier == nil {
		h.notifier = notify.NewLogNotifier(h.logger)
	}
	h.proxy = h.newProxy()
	return h, nil
}

// counter 未配置指标时返回 nil 接口
func (h *Handler) counter() notify.Counter {
	if h.recorder == nil {
		return nil
	}
	return h.recorder
}

// clientFor 返回绑定到当前浏览器会话的客户端
func (h *Handler) clientFor(sess evcs.Session, extra ...evcs.Notifier) *evcs.Client {
	notifiers := append([]evcs.Notifier{h.notifier}, extra...)
	return h.client.Derive(
		evcs.WithSession(sess),
		evcs.WithNotifier(notify.Multi(h.counter(), notifiers...)),
	)
}

// RegisterRoutes 注册控制台路由
// 页面路由通过 NoRoute 注册，须在全局 Session 中间件之后调用
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/login", append(append([]gin.HandlerFunc(nil), h.loginGuards...), h.Login)...)
	r.POST("/logout", h.Logout)
	r.GET("/session", middleware.RequireLogin(), h.Session)
	r.GET("/routes.json", h.Routes)
	r.GET("/version.json", middleware.NoCache(), h.Version)

	root := h.client.Config().Root
	if root == "" {
		root = "/api"
	}
	r.Any(strings.TrimRight(root, "/")+"/*path", h.Proxy)

	r.NoRoute(h.Static, middleware.RouteGuard(), h.Page)
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
