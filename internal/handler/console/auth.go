package console

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/handler"
	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/internal/common/response"
	"github.com/dumeirei/evcs-console/internal/middleware"
	"github.com/dumeirei/evcs-console/internal/router"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// LoginRequest 登录请求，identifier 与 username 二选一
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
}

// SessionInfo 当前会话信息
type SessionInfo struct {
	TenantID  string         `json:"tenantId,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	ExpiresIn int64          `json:"expiresIn,omitempty"` // 令牌剩余秒数，无法解析时省略
	Menu      []router.Route `json:"menu"`
}

// Login 登录
// @Summary 控制台登录
// @Description 调用后端登录接口，令牌写入服务端会话，响应原样返回后端 data
// @Tags 控制台
// @Accept json
// @Produce json
// @Param request body LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=evcs.LoginResponse}
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		response.BadRequest(c, "请输入用户名")
		return
	}

	sid, sess := middleware.EnsureSession(c, h.session)
	client := h.clientFor(sess)

	out, err := client.Login(c.Request.Context(), evcs.LoginRequest{Identifier: identifier, Password: req.Password})
	if handler.HandleError(c, err) {
		return
	}

	h.logger.Info("控制台登录成功",
		logger.SessionID(sid),
		zap.String("identifier", identifier),
		logger.IP(c.ClientIP()),
	)
	response.Success(c, out)
}

// Logout 注销
// 后端注销失败时仍然清除本地会话与 cookie
// @Summary 控制台注销
// @Tags 控制台
// @Produce json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if sess := middleware.GetSession(c); sess != nil {
		if err := h.clientFor(sess).Logout(c.Request.Context()); err != nil {
			h.logger.Warn("后端注销失败", logger.SessionID(middleware.GetSessionID(c)), zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c, h.session)
	response.Success(c, nil)
}

// Session 当前会话
// @Summary 当前会话信息
// @Tags 控制台
// @Produce json
// @Success 200 {object} response.Response{data=SessionInfo}
// @Router /session [get]
func (h *Handler) Session(c *gin.Context) {
	info := SessionInfo{
		TenantID: middleware.GetTenantID(c),
		UserID:   middleware.GetUserID(c),
		Menu:     router.Menu(),
	}
	if h.inspector != nil {
		if claims, err := h.inspector.Parse(middleware.GetToken(c)); err == nil {
			info.ExpiresIn = int64(claims.TTL(time.Now()) / time.Second)
		}
	}
	response.Success(c, info)
}

// Routes 侧边栏菜单
func (h *Handler) Routes(c *gin.Context) {
	response.Success(c, router.Menu())
}
