package evcs

import (
	"context"
	"net/http"
	"net/url"
)

// 用户接口
var (
	EndpointUserList          = Endpoint{Name: "user.list", Method: http.MethodGet, Pattern: "/user/list"}
	EndpointUserGet           = Endpoint{Name: "user.get", Method: http.MethodGet, Pattern: "/user/%d"}
	EndpointUserCreate        = Endpoint{Name: "user.create", Method: http.MethodPost, Pattern: "/user"}
	EndpointUserUpdate        = Endpoint{Name: "user.update", Method: http.MethodPut, Pattern: "/user/%d"}
	EndpointUserDelete        = Endpoint{Name: "user.delete", Method: http.MethodDelete, Pattern: "/user/%d"}
	EndpointUserResetPassword = Endpoint{Name: "user.reset_password", Method: http.MethodPost, Pattern: "/user/%d/reset-password"}
	EndpointUserRoles         = Endpoint{Name: "user.roles", Method: http.MethodGet, Pattern: "/user/%d/roles"}
	EndpointUserAssignRoles   = Endpoint{Name: "user.assign_roles", Method: http.MethodPost, Pattern: "/user/%d/roles"}
)

// UserQuery 用户列表查询参数
type UserQuery struct {
	Username string
	RealName string
	Status   *int
	PageQuery
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	setString(v, "username", q.Username)
	setString(v, "realName", q.RealName)
	setIntPtr(v, "status", q.Status)
	q.PageQuery.apply(v)
	return v
}

// User 用户
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Identifier string `json:"identifier,omitempty"`
	RealName   string `json:"realName,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Gender     int    `json:"gender,omitempty"`
	Status     int    `json:"status"`
	UserType   int    `json:"userType"`
	TenantID   int64  `json:"tenantId"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// UserForm 用户表单
type UserForm struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	RealName string `json:"realName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Gender   int    `json:"gender,omitempty"`
	Status   int    `json:"status"`
	UserType int    `json:"userType,omitempty"`
}

// Role 角色
type Role struct {
	ID       int64  `json:"id"`
	RoleCode string `json:"roleCode"`
	RoleName string `json:"roleName"`
	Status   int    `json:"status"`
}

// ListUsers 用户列表
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*PageResult[User], error) {
	req := EndpointUserList.Request()
	req.Query = q.values()
	return invoke[*PageResult[User]](ctx, c, req)
}

// GetUser 用户详情
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	return invoke[*User](ctx, c, EndpointUserGet.Request(id))
}

// CreateUser 新增用户
func (c *Client) CreateUser(ctx context.Context, form UserForm) (*User, error) {
	req := EndpointUserCreate.Request()
	req.Body = form
	return invoke[*User](ctx, c, req)
}

// UpdateUser 更新用户
func (c *Client) UpdateUser(ctx context.Context, id int64, form UserForm) error {
	req := EndpointUserUpdate.Request(id)
	req.Body = form
	return exec(ctx, c, req)
}

// DeleteUser 删除用户
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return exec(ctx, c, EndpointUserDelete.Request(id))
}

// ResetUserPassword 重置密码
func (c *Client) ResetUserPassword(ctx context.Context, id int64, newPassword string) error {
	req := EndpointUserResetPassword.Request(id)
	req.Body = map[string]string{"newPassword": newPassword}
	return exec(ctx, c, req)
}

// GetUserRoles 用户角色
func (c *Client) GetUserRoles(ctx context.Context, userID int64) ([]Role, error) {
	return invoke[[]Role](ctx, c, EndpointUserRoles.Request(userID))
}

// AssignUserRoles 分配角色
func (c *Client) AssignUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if roleIDs == nil {
		roleIDs = []int64{}
	}
	req := EndpointUserAssignRoles.Request(userID)
	req.Body = map[string][]int64{"roleIds": roleIDs}
	return exec(ctx, c, req)
}
