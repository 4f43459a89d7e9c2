// Package tracing 提供 OpenTelemetry 分布式追踪单元测试
package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ==================== Init 测试 ====================

func TestInit(t *testing.T) {
	t.Run("使用默认配置", func(t *testing.T) {
		tracer, err := Init(nil)
		require.NoError(t, err)
		assert.Equal(t, "evcs-console", tracer.config.ServiceName)
		assert.False(t, tracer.Enabled())
	})

	t.Run("启用时输出到 stdout", func(t *testing.T) {
		tracer, err := Init(&Config{
			ServiceName:    "test-service",
			ServiceVersion: "1.0.0",
			Environment:    "test",
			SampleRate:     0.5,
			Enabled:        true,
		})
		require.NoError(t, err)
		assert.True(t, tracer.Enabled())
		require.NoError(t, tracer.Shutdown(context.Background()))
	})

	t.Run("禁用追踪", func(t *testing.T) {
		tracer, err := Init(&Config{ServiceName: "disabled", Enabled: false})
		require.NoError(t, err)
		assert.Nil(t, tracer.provider)
		assert.NoError(t, tracer.Shutdown(context.Background()))
	})
}

func TestNewResource(t *testing.T) {
	res, err := newResource(&Config{ServiceName: "evcs-console", ServiceVersion: "1.2.3", Environment: "test"})
	require.NoError(t, err, "与 SDK 默认资源合并不应产生 schema 冲突")
	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	values := make(map[string]string)
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "evcs-console", values["service.name"])
	assert.Equal(t, "1.2.3", values["service.version"])
	assert.Equal(t, "test", values["environment"])
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.3).Description(), "TraceIDRatioBased")
}

// ==================== TraceID 测试 ====================

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	tracer, err := Init(&Config{ServiceName: "trace-id", SampleRate: 1, Enabled: true})
	require.NoError(t, err)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.Len(t, TraceID(ctx), 32)
}
