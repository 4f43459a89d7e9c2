package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dumeirei/evcs-console/internal/common/errors"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 辅助函数：创建测试上下文
func createTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

// ==================== HandleError 测试 ====================

func TestHandleError(t *testing.T) {
	t.Run("无错误", func(t *testing.T) {
		c, w := createTestContext("")
		assert.False(t, HandleError(c, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("后端 404", func(t *testing.T) {
		c, w := createTestContext("")
		err := &evcs.Error{Kind: evcs.KindNotFound, Status: 404, Message: evcs.MsgNotFound}
		assert.True(t, HandleError(c, err))
		assert.Equal(t, http.StatusNotFound, w.Code)

		env, ok := evcs.ParseEnvelope(w.Body.Bytes())
		require.True(t, ok)
		assert.Equal(t, evcs.MsgNotFound, env.Message)
		assert.Equal(t, apperrors.ErrNotFound.Code, *env.Code)
		assert.Len(t, c.Errors, 1)
	})

	t.Run("开发中接口的 401", func(t *testing.T) {
		c, w := createTestContext("")
		err := &evcs.Error{Kind: evcs.KindUnauthorized, Status: 401, Tolerated: true}
		assert.True(t, HandleError(c, err))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), evcs.MsgDeveloping)
	})

	t.Run("普通错误", func(t *testing.T) {
		c, w := createTestContext("")
		assert.True(t, HandleError(c, errors.New("boom")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// ==================== MustSucceed 测试 ====================

func TestMustSucceed(t *testing.T) {
	c, w := createTestContext("")
	MustSucceed(c, nil, gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	env, ok := evcs.ParseEnvelope(w.Body.Bytes())
	require.True(t, ok)
	assert.False(t, env.Failed())
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	c, w = createTestContext("")
	MustSucceed(c, &evcs.Error{Kind: evcs.KindForbidden, Status: 403, Message: evcs.MsgForbidden}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ==================== BindJSON 测试 ====================

func TestBindJSON(t *testing.T) {
	type input struct {
		Name string `json:"name" binding:"required"`
	}

	var in input
	c, _ := createTestContext(`{"name":"a"}`)
	assert.True(t, BindJSON(c, &in))
	assert.Equal(t, "a", in.Name)

	var empty input
	c, w := createTestContext(`{}`)
	assert.False(t, BindJSON(c, &empty))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrInvalidParams.Message)
}
