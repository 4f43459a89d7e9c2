package evcs

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// 认证接口
var (
	EndpointLogin        = Endpoint{Name: "auth.login", Method: http.MethodPost, Pattern: "/auth/login"}
	EndpointLogout       = Endpoint{Name: "auth.logout", Method: http.MethodPost, Pattern: "/auth/logout"}
	EndpointUserInfo     = Endpoint{Name: "auth.userinfo", Method: http.MethodGet, Pattern: "/auth/userinfo"}
	EndpointRefreshToken = Endpoint{Name: "auth.refresh", Method: http.MethodPost, Pattern: "/auth/refresh"}
)

// LoginRequest 登录请求
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginUserInfo 登录用户信息
type LoginUserInfo struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Identifier  string   `json:"identifier,omitempty"`
	RealName    string   `json:"realName,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Gender      int      `json:"gender,omitempty"`
	TenantID    int64    `json:"tenantId,omitempty"`
	TenantName  string   `json:"tenantName,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	TokenType    string         `json:"tokenType,omitempty"`
	ExpiresIn    int64          `json:"expiresIn,omitempty"`
	User         *LoginUserInfo `json:"user,omitempty"`
}

// Login 登录并把令牌、租户与用户 ID 写入会话
func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	req := EndpointLogin.Request()
	req.Body = in
	out, err := invoke[*LoginResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if out == nil || out.AccessToken == "" {
		return out, &Error{Kind: KindDecode, Message: "登录响应缺少令牌", Method: req.Endpoint.Method, Path: req.Path}
	}
	if err := c.storeLogin(ctx, out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) storeLogin(ctx context.Context, out *LoginResponse) error {
	if err := c.session.Set(ctx, KeyToken, out.AccessToken); err != nil {
		return err
	}

	var tenantID, userID string
	if out.User != nil {
		if out.User.TenantID != 0 {
			tenantID = strconv.FormatInt(out.User.TenantID, 10)
		}
		if out.User.ID != 0 {
			userID = strconv.FormatInt(out.User.ID, 10)
		}
	}
	if (tenantID == "" || userID == "") && c.inspector != nil {
		if t, u, ok := c.inspector(out.AccessToken); ok {
			tenantID = firstNonEmpty(tenantID, t)
			userID = firstNonEmpty(userID, u)
		}
	}

	// 新登录缺少的 ID 必须删除，不能沿用上一位用户的值
	if err := c.setOrDelete(ctx, KeyTenantID, tenantID); err != nil {
		return err
	}
	return c.setOrDelete(ctx, KeyUserID, userID)
}

func (c *Client) setOrDelete(ctx context.Context, key, value string) error {
	if value == "" {
		return c.session.Delete(ctx, key)
	}
	return c.session.Set(ctx, key, value)
}

// Logout 注销，无论后端是否成功都清除本地会话
func (c *Client) Logout(ctx context.Context) error {
	err := exec(ctx, c, EndpointLogout.Request())
	if clearErr := c.session.Delete(ctx, KeyToken, KeyTenantID, KeyUserID); clearErr != nil {
		c.logger.Error("清除会话失败", zap.Error(clearErr))
		if err == nil {
			err = clearErr
		}
	}
	return err
}

// GetUserInfo 当前用户信息
func (c *Client) GetUserInfo(ctx context.Context) (*LoginUserInfo, error) {
	return invoke[*LoginUserInfo](ctx, c, EndpointUserInfo.Request())
}

// RefreshToken 刷新令牌并更新会话
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	req := EndpointRefreshToken.Request()
	req.Body = map[string]string{"refreshToken": refreshToken}
	out, err := invoke[*LoginResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if out != nil && out.AccessToken != "" {
		if err := c.session.Set(ctx, KeyToken, out.AccessToken); err != nil {
			return out, err
		}
	}
	return out, nil
}
