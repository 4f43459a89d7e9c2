// Package logger 提供结构化日志功能
package logger

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dumeirei/evcs-console/internal/common/config"
)

// 输出目标
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr" // CLI 使用，避免污染命令输出
	OutputFile   = "file"
	OutputBoth   = "both" // stdout 与文件
)

var global *zap.Logger

// New 按配置构建日志器
func New(cfg *config.LoggerConfig) (*zap.Logger, error) {
	sinks, err := writers(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.NewMultiWriteSyncer(sinks...), getLogLevel(cfg.Level))
	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Caller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

// Init 构建日志器并设为全局日志器
func Init(cfg *config.LoggerConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	global = l
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func writers(cfg *config.LoggerConfig) ([]zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case OutputStdout, "":
		return []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}, nil
	case OutputStderr:
		return []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}, nil
	case OutputFile, OutputBoth:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logger: output %q requires file_path", cfg.Output)
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		})
		if cfg.Output == OutputFile {
			return []zapcore.WriteSyncer{file}, nil
		}
		return []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout), file}, nil
	default:
		return nil, fmt.Errorf("logger: unknown output %q", cfg.Output)
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func getLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger 全局日志器，未初始化时返回开发模式日志器
func GetLogger() *zap.Logger {
	if global == nil {
		global, _ = zap.NewDevelopment()
	}
	return global
}

// Named 全局日志器的命名子日志器
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

// Sync 刷新缓冲
// stdout/stderr 指向终端或管道时 fsync 返回 EINVAL/ENOTTY，这类错误忽略
func Sync() error {
	if global == nil {
		return nil
	}
	if err := global.Sync(); err != nil && !ignorableSyncError(err) {
		return err
	}
	return nil
}

func ignorableSyncError(err error) bool {
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, syscall.EINVAL) && !errors.Is(e, syscall.ENOTTY) {
			return false
		}
	}
	return true
}

// RequestID 请求ID字段
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// TraceID 链路ID字段
func TraceID(id string) zap.Field {
	return zap.String("trace_id", id)
}

// UserID 用户ID字段
func UserID(id string) zap.Field {
	return zap.String("user_id", id)
}

// TenantID 租户ID字段
func TenantID(id string) zap.Field {
	return zap.String("tenant_id", id)
}

// SessionID 控制台会话ID字段，只记录前 8 位
func SessionID(id string) zap.Field {
	if len(id) > 8 {
		id = id[:8]
	}
	return zap.String("session_id", id)
}

// Endpoint 后端接口字段
func Endpoint(name string) zap.Field {
	return zap.String("endpoint", name)
}

// Latency 耗时字段
func Latency(d time.Duration) zap.Field {
	return zap.Duration("latency", d)
}

// StatusCode HTTP状态码字段
func StatusCode(code int) zap.Field {
	return zap.Int("status_code", code)
}

// Method HTTP方法字段
func Method(method string) zap.Field {
	return zap.String("method", method)
}

// Path 路径字段
func Path(path string) zap.Field {
	return zap.String("path", path)
}

// IP IP地址字段
func IP(ip string) zap.Field {
	return zap.String("ip", ip)
}
