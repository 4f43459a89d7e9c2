// Package errors 错误码和错误处理单元测试
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dumeirei/evcs-console/pkg/evcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== AppError 基础测试 ====================

func TestNew(t *testing.T) {
	err := New(1001, "参数错误")
	require.NotNil(t, err)
	assert.Equal(t, 1001, err.Code)
	assert.Equal(t, "参数错误", err.Message)
	assert.Nil(t, err.Err)
	assert.Equal(t, "[1001] 参数错误", err.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("redis: connection refused")
	err := Wrap(1007, "会话存储错误", cause)
	assert.Equal(t, "[1007] 会话存储错误: redis: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestAppError_Copies(t *testing.T) {
	cause := stderrors.New("boom")
	err := ErrLoginFailed.WithMessage("用户名或密码错误").WithError(cause)

	assert.Equal(t, ErrLoginFailed.Code, err.Code)
	assert.Equal(t, "用户名或密码错误", err.Message)
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, "登录失败", ErrLoginFailed.Message)
	assert.Nil(t, ErrLoginFailed.Err)
}

// ==================== IsAppError / GetAppError 测试 ====================

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrNotFound))
	assert.True(t, IsAppError(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsAppError(stderrors.New("plain")))
	assert.False(t, IsAppError(nil))
}

func TestGetAppError(t *testing.T) {
	assert.Equal(t, ErrTokenInvalid, GetAppError(ErrTokenInvalid))

	plain := stderrors.New("plain")
	got := GetAppError(plain)
	assert.Equal(t, ErrUnknown.Code, got.Code)
	assert.Equal(t, plain, got.Err)
}

// ==================== FromAPI 测试 ====================

func TestFromAPI(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "business with code",
			err:        &evcs.Error{Kind: evcs.KindBusiness, Status: 200, Code: 1001, Message: "用户名或密码错误"},
			wantCode:   1001,
			wantStatus: http.StatusOK,
			wantMsg:    "用户名或密码错误",
		},
		{
			name:       "business without code",
			err:        &evcs.Error{Kind: evcs.KindBusiness, Status: 200, Message: "Error"},
			wantCode:   ErrUpstreamBusiness.Code,
			wantStatus: http.StatusOK,
			wantMsg:    "Error",
		},
		{
			name:       "fatal unauthorized",
			err:        &evcs.Error{Kind: evcs.KindUnauthorized, Status: 401, Message: evcs.MsgUnauthorized},
			wantCode:   ErrUnauthorized.Code,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    evcs.MsgUnauthorized,
		},
		{
			name:       "tolerated unauthorized",
			err:        &evcs.Error{Kind: evcs.KindUnauthorized, Status: 401, Message: evcs.MsgDeveloping, Tolerated: true},
			wantCode:   ErrDeveloping.Code,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    evcs.MsgDeveloping,
		},
		{
			name:       "not found",
			err:        &evcs.Error{Kind: evcs.KindNotFound, Status: 404, Message: evcs.MsgNotFound},
			wantCode:   ErrNotFound.Code,
			wantStatus: http.StatusNotFound,
			wantMsg:    evcs.MsgNotFound,
		},
		{
			name:       "transport",
			err:        fmt.Errorf("login: %w", &evcs.Error{Kind: evcs.KindTransport, Message: evcs.MsgNetworkError}),
			wantCode:   ErrUpstreamUnavailable.Code,
			wantStatus: http.StatusBadGateway,
			wantMsg:    evcs.MsgNetworkError,
		},
		{
			name:       "plain error",
			err:        stderrors.New("plain"),
			wantCode:   ErrUnknown.Code,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    ErrUnknown.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, status := FromAPI(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}
