// Package main 是控制台服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/buildinfo"
	"github.com/dumeirei/evcs-console/internal/common/cache"
	"github.com/dumeirei/evcs-console/internal/common/config"
	"github.com/dumeirei/evcs-console/internal/common/database"
	"github.com/dumeirei/evcs-console/internal/common/jwt"
	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/internal/common/metrics"
	"github.com/dumeirei/evcs-console/internal/common/tracing"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/internal/scheduler"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// purgeInterval 过期会话清理间隔
const purgeInterval = time.Hour

func main() {
	// 加载配置，EVCS_CONFIG 可指定配置文件
	cfg, err := config.Load(os.Getenv("EVCS_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	version := buildinfo.Info{Commit: buildinfo.Unknown, Branch: buildinfo.Unknown}
	if info, err := buildinfo.Read(cfg.Console.VersionFile); err == nil {
		version = *info
	} else {
		log.Warn("未找到版本信息", zap.String("file", cfg.Console.VersionFile), zap.Error(err))
	}
	log.Info("Starting EVCS console",
		zap.String("commit", version.Commit),
		zap.String("branch", version.Branch),
		zap.String("build_number", version.BuildNumber),
		zap.String("env", cfg.Server.Mode),
		zap.String("backend", cfg.API.BaseURL),
	)

	// 初始化链路追踪
	tracer, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version.Commit,
		Environment:    cfg.Server.Mode,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}

	// 初始化指标
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("evcs_console", cfg.Metrics.Path)
	}

	// 初始化会话存储
	store, err := session.Open(cfg)
	if err != nil {
		log.Fatal("Failed to open session store", zap.String("driver", cfg.Session.Driver), zap.Error(err))
	}
	if m != nil {
		store = session.Instrument(store, cfg.Session.Driver, m)
	}
	log.Info("Session store ready", zap.String("driver", cfg.Session.Driver))

	// 初始化 API 客户端
	inspector := jwt.NewInspector(&jwt.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	opts := []evcs.Option{
		evcs.WithLogger(log.Named("evcs")),
		evcs.WithNotifier(notify.NewLogNotifier(log.Named("notify"))),
		evcs.WithTokenInspector(inspector.Inspect),
	}
	if m != nil {
		opts = append(opts, evcs.WithObserver(m.ObserveAPICall))
	}
	client, err := evcs.New(evcs.Config{
		BaseURL:         cfg.API.BaseURL,
		Root:            cfg.API.Root,
		Timeout:         cfg.API.TimeoutDuration(),
		DevelopingPaths: cfg.API.DevelopingPaths,
		UserAgent:       cfg.Server.Name,
	}, opts...)
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	// 定时任务
	sched := scheduler.NewScheduler(log)
	if cfg.Session.Driver == session.DriverDatabase {
		if purger, ok := store.(session.Purger); ok {
			sched.AddTask(scheduler.TaskPurgeSessions, purgeInterval, scheduler.PurgeSessions(purger, log))
		}
	}
	sched.Start()

	// 设置 Gin 模式
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	if err := setupRouter(engine, &deps{
		cfg:       cfg,
		logger:    log,
		client:    client,
		store:     store,
		inspector: inspector,
		metrics:   m,
	}); err != nil {
		log.Fatal("Failed to setup router", zap.Error(err))
	}

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 创建超时上下文用于优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	sched.Stop()
	if err := tracer.Shutdown(ctx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		log.Error("Failed to close session store", zap.Error(err))
	}
	switch cfg.Session.Driver {
	case session.DriverRedis:
		_ = cache.Close()
	case session.DriverDatabase:
		_ = database.Close()
	}

	log.Info("Server exited")
}
