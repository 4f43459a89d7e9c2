// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/internal/common/response"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// SessionConfig 控制台会话配置
type SessionConfig struct {
	Store      evcs.Session
	CookieName string
	MaxAge     int  // 秒，0 表示浏览器会话 cookie
	Secure     bool // 仅 HTTPS 发送
	Logger     *zap.Logger
}

// 上下文键
const (
	ContextKeySessionID = "session_id"
	ContextKeySession   = "session"
	ContextKeyToken     = "token"
	ContextKeyTenantID  = "tenant_id"
	ContextKeyUserID    = "user_id"
)

// Session 会话中间件
// 从 cookie 读取会话 ID，把限定命名空间后的会话与其中的令牌写入上下文
func Session(config *SessionConfig) gin.HandlerFunc {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		sid, _ := c.Cookie(config.CookieName)
		if sid == "" {
			c.Next()
			return
		}

		sess := session.Scoped(config.Store, sid)
		c.Set(ContextKeySessionID, sid)
		c.Set(ContextKeySession, sess)

		ctx := c.Request.Context()
		for _, kv := range [][2]string{
			{evcs.KeyToken, ContextKeyToken},
			{evcs.KeyTenantID, ContextKeyTenantID},
			{evcs.KeyUserID, ContextKeyUserID},
		} {
			v, err := sess.Get(ctx, kv[0])
			if err != nil {
				log.Warn("读取会话失败", logger.SessionID(sid), zap.String("key", kv[0]), zap.Error(err))
				continue
			}
			if v != "" {
				c.Set(kv[1], v)
			}
		}

		c.Next()
	}
}

// EnsureSession 返回当前会话，没有时新建会话 ID 并下发 cookie
func EnsureSession(c *gin.Context, config *SessionConfig) (string, evcs.Session) {
	if sid := GetSessionID(c); sid != "" {
		return sid, GetSession(c)
	}

	sid := uuid.New().String()
	sess := session.Scoped(config.Store, sid)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.CookieName, sid, config.MaxAge, "/", "", config.Secure, true)
	c.Set(ContextKeySessionID, sid)
	c.Set(ContextKeySession, sess)
	return sid, sess
}

// ClearSessionCookie 删除会话 cookie
func ClearSessionCookie(c *gin.Context, config *SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.CookieName, "", -1, "/", "", config.Secure, true)
}

// RequireLogin 要求会话中存在令牌，否则返回 401 信封
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetToken(c) == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionID 从上下文获取会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// GetSession 从上下文获取会话，未建立会话时返回 nil
func GetSession(c *gin.Context) evcs.Session {
	if v, ok := c.Get(ContextKeySession); ok {
		return v.(evcs.Session)
	}
	return nil
}

// GetToken 从上下文获取令牌
func GetToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}

// GetTenantID 从上下文获取租户 ID
func GetTenantID(c *gin.Context) string {
	return c.GetString(ContextKeyTenantID)
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
