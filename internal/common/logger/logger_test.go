// Package logger 日志模块单元测试
package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/dumeirei/evcs-console/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// readEntries 读取 JSON 日志行
func readEntries(t *testing.T, path string) []map[string]interface{} {
	_ = Sync()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

// ==================== Init 函数测试 ====================

func TestInit_Outputs(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", ""} {
		t.Run(output, func(t *testing.T) {
			err := Init(&config.LoggerConfig{Level: "debug", Format: "console", Output: output, Caller: true})
			assert.NoError(t, err)
			assert.NotNil(t, GetLogger())
		})
	}
}

func TestInit_InvalidOutput(t *testing.T) {
	before := GetLogger()

	err := Init(&config.LoggerConfig{Output: "syslog"})
	assert.ErrorContains(t, err, "unknown output")

	err = Init(&config.LoggerConfig{Output: OutputFile})
	assert.ErrorContains(t, err, "file_path")

	err = Init(&config.LoggerConfig{Output: OutputBoth})
	assert.ErrorContains(t, err, "file_path")

	assert.Same(t, before, GetLogger(), "失败时保留原日志器")
}

func TestNew_BothOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "both.log")
	l, err := New(&config.LoggerConfig{Level: "info", Format: "json", Output: OutputBoth, FilePath: logFile})
	require.NoError(t, err)

	l.Info("同时写入", Endpoint("station.list"))
	_ = l.Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"endpoint":"station.list"`)
}

func TestInit_FileOutputJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "console.log")
	require.NoError(t, Init(&config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
		MaxSize:  1,
	}))

	GetLogger().Info("API 请求", Endpoint("tenant.list"), StatusCode(200), TenantID("3"))
	entries := readEntries(t, logFile)

	require.Len(t, entries, 1)
	assert.Equal(t, "API 请求", entries[0]["msg"])
	assert.Equal(t, "tenant.list", entries[0]["endpoint"])
	assert.Equal(t, float64(200), entries[0]["status_code"])
	assert.Equal(t, "3", entries[0]["tenant_id"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Contains(t, entries[0], "time")
}

func TestInit_LevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "level.log")
	require.NoError(t, Init(&config.LoggerConfig{Level: "warn", Format: "json", Output: "file", FilePath: logFile}))

	l := GetLogger()
	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error 1")

	var msgs []string
	for _, e := range readEntries(t, logFile) {
		msgs = append(msgs, e["msg"].(string))
	}
	assert.Equal(t, []string{"warn message", "error 1"}, msgs)
}

// ==================== getLogLevel 测试 ====================

func TestGetLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"invalid": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for level, expected := range tests {
		assert.Equal(t, expected, getLogLevel(level), level)
	}
}

// ==================== customTimeEncoder 测试 ====================

type testArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	lastString string
}

func (e *testArrayEncoder) AppendString(s string) {
	e.lastString = s
}

func TestCustomTimeEncoder(t *testing.T) {
	enc := &testArrayEncoder{}
	customTimeEncoder(time.Date(2026, 1, 11, 15, 30, 45, 123000000, time.Local), enc)
	assert.Equal(t, "2026-01-11 15:30:45.123", enc.lastString)
}

// ==================== 字段构造函数测试 ====================

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, "request_id", RequestID("r").Key)
	assert.Equal(t, "user_id", UserID("7").Key)
	assert.Equal(t, "tenant_id", TenantID("3").Key)
	assert.Equal(t, "endpoint", Endpoint("order.export").Key)
	assert.Equal(t, "trace_id", TraceID("t").Key)
	assert.Equal(t, "latency", Latency(time.Second).Key)
	assert.Equal(t, "method", Method("GET").Key)
	assert.Equal(t, "path", Path("/api").Key)
	assert.Equal(t, "ip", IP("127.0.0.1").Key)
	assert.Equal(t, "status_code", StatusCode(200).Key)
}

func TestSessionID_Truncated(t *testing.T) {
	field := SessionID("0123456789abcdef")
	assert.Equal(t, "session_id", field.Key)
	assert.Equal(t, "01234567", field.String)
	assert.Equal(t, "abc", SessionID("abc").String)
}

// ==================== 派生日志器测试 ====================

func TestDerivedLoggers(t *testing.T) {
	require.NoError(t, Init(&config.LoggerConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, Named("evcsctl"))
}

// ==================== Sync 测试 ====================

func TestSync_ConsoleOutput(t *testing.T) {
	// stdout 为终端或管道时 fsync 失败，Sync 不应报错
	for _, output := range []string{OutputStdout, OutputStderr} {
		require.NoError(t, Init(&config.LoggerConfig{Level: "info", Format: "console", Output: output}))
		GetLogger().Info("flush")
		assert.NoError(t, Sync(), output)
	}
}

func TestIgnorableSyncError(t *testing.T) {
	einval := &os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.EINVAL}
	enotty := &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.ENOTTY}
	diskFull := &os.PathError{Op: "sync", Path: "console.log", Err: syscall.ENOSPC}

	assert.True(t, ignorableSyncError(einval))
	assert.True(t, ignorableSyncError(enotty))
	assert.True(t, ignorableSyncError(multierr.Combine(einval, enotty)))
	assert.False(t, ignorableSyncError(diskFull))
	assert.False(t, ignorableSyncError(errors.New("closed")))
	assert.False(t, ignorableSyncError(multierr.Combine(einval, diskFull)), "文件写入错误不能被吞掉")
}
