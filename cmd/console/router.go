package main

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/docs"
	"github.com/dumeirei/evcs-console/internal/common/cache"
	"github.com/dumeirei/evcs-console/internal/common/config"
	"github.com/dumeirei/evcs-console/internal/common/database"
	"github.com/dumeirei/evcs-console/internal/common/jwt"
	"github.com/dumeirei/evcs-console/internal/common/metrics"
	"github.com/dumeirei/evcs-console/internal/handler/console"
	"github.com/dumeirei/evcs-console/internal/middleware"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// maxRequestBody 请求体上限
const maxRequestBody = 10 << 20

// deps 路由依赖
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *evcs.Client
	store     session.Store
	inspector *jwt.Inspector
	metrics   *metrics.Metrics // 未启用时为 nil
}

// setupRouter 设置路由
func setupRouter(r *gin.Engine, d *deps) error {
	cfg := d.cfg

	sessionCfg := &middleware.SessionConfig{
		Store:      d.store,
		CookieName: cfg.Session.CookieName,
		MaxAge:     int(cfg.Session.TTLDuration() / time.Second),
		Secure:     cfg.Server.SecureCookie,
		Logger:     d.logger,
	}

	// 全局中间件
	r.Use(middleware.Recovery(d.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(&middleware.TracingConfig{
		ServiceName: cfg.Tracing.ServiceName,
		SkipPaths:   []string{"/health", "/ping", "/ready", cfg.Metrics.Path},
	}))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(middleware.FromConfig(&cfg.CORS)))
	r.Use(middleware.RequestSizeLimiter(maxRequestBody))
	if d.metrics != nil {
		r.Use(d.metrics.Middleware())
	}
	r.Use(middleware.Session(sessionCfg))
	r.Use(middleware.Logging(middleware.DefaultLoggingConfig(d.logger)))

	// 健康检查
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(readyChecks(cfg)))

	// 监控指标
	if d.metrics != nil {
		r.GET(cfg.Metrics.Path, d.metrics.Handler())
	}

	// Swagger 文档
	if cfg.Console.Swagger {
		docs.SwaggerInfo.Title = cfg.Server.Name
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 登录限流依赖 redis
	var loginGuards []gin.HandlerFunc
	if rdb := cache.GetClient(); rdb != nil && cfg.Server.LoginRateLimit > 0 {
		loginGuards = append(loginGuards, middleware.LoginRateLimit(rdb, cfg.Server.LoginRateLimit, time.Minute))
	}

	var recorder console.Recorder
	if d.metrics != nil {
		recorder = d.metrics
	}
	h, err := console.NewHandler(&console.Config{
		Client:      d.client,
		Session:     sessionCfg,
		Inspector:   d.inspector,
		Notifier:    notify.NewLogNotifier(d.logger.Named("notify")),
		Recorder:    recorder,
		DistDir:     cfg.Console.DistDir,
		VersionFile: cfg.Console.VersionFile,
		LoginGuards: loginGuards,
		Logger:      d.logger,
	})
	if err != nil {
		return err
	}
	h.RegisterRoutes(r)
	return nil
}

// readyChecks 按会话驱动选择需要检查的依赖
func readyChecks(cfg *config.Config) map[string]checkFunc {
	checks := map[string]checkFunc{}
	switch cfg.Session.Driver {
	case session.DriverRedis:
		checks["redis"] = cache.Ping
	case session.DriverDatabase:
		checks["database"] = database.Ping
	}
	return checks
}
