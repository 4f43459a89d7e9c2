package evcs

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
)

// 租户接口
var (
	EndpointTenantList       = Endpoint{Name: "tenant.list", Method: http.MethodGet, Pattern: "/tenant/list"}
	EndpointTenantPage       = Endpoint{Name: "tenant.page", Method: http.MethodGet, Pattern: "/tenant/page"}
	EndpointTenantGet        = Endpoint{Name: "tenant.get", Method: http.MethodGet, Pattern: "/tenant/%d"}
	EndpointTenantCreate     = Endpoint{Name: "tenant.create", Method: http.MethodPost, Pattern: "/tenant"}
	EndpointTenantUpdate     = Endpoint{Name: "tenant.update", Method: http.MethodPut, Pattern: "/tenant/%d"}
	EndpointTenantDelete     = Endpoint{Name: "tenant.delete", Method: http.MethodDelete, Pattern: "/tenant/%d"}
	EndpointTenantTree       = Endpoint{Name: "tenant.tree", Method: http.MethodGet, Pattern: "/tenant/tree"}
	EndpointTenantChildren   = Endpoint{Name: "tenant.children", Method: http.MethodGet, Pattern: "/tenant/%d/children"}
	EndpointTenantStatus     = Endpoint{Name: "tenant.status", Method: http.MethodPut, Pattern: "/tenant/%d/status"}
	EndpointTenantCheckCode  = Endpoint{Name: "tenant.check_code", Method: http.MethodGet, Pattern: "/tenant/check-code"}
	EndpointTenantStatistics = Endpoint{Name: "tenant.statistics", Method: http.MethodGet, Pattern: "/tenant/statistics", Developing: true}
)

// TenantQuery 租户列表查询参数
type TenantQuery struct {
	Name   string
	Type   string
	Status *int
	PageQuery
}

func (q TenantQuery) values() url.Values {
	v := url.Values{}
	setString(v, "name", q.Name)
	setString(v, "type", q.Type)
	setIntPtr(v, "status", q.Status)
	q.PageQuery.apply(v)
	return v
}

// Tenant 租户
type Tenant struct {
	ID           int64      `json:"id"`
	TenantCode   string     `json:"tenantCode"`
	TenantName   string     `json:"tenantName"`
	TenantType   FlexString `json:"tenantType"`
	ParentID     int64      `json:"parentId,omitempty"`
	ContactName  string     `json:"contactName,omitempty"`
	ContactPhone string     `json:"contactPhone,omitempty"`
	ContactEmail string     `json:"contactEmail,omitempty"`
	Address      string     `json:"address,omitempty"`
	MaxUsers     int        `json:"maxUsers,omitempty"`
	MaxStations  int        `json:"maxStations,omitempty"`
	MaxChargers  int        `json:"maxChargers,omitempty"`
	ExpireTime   string     `json:"expireTime,omitempty"`
	Status       int        `json:"status"`
	CreateTime   string     `json:"createTime,omitempty"`
	UpdateTime   string     `json:"updateTime,omitempty"`
}

// TenantForm 租户表单
type TenantForm struct {
	TenantCode   string `json:"tenantCode"`
	TenantName   string `json:"tenantName"`
	TenantType   string `json:"tenantType"`
	ParentID     int64  `json:"parentId,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Address      string `json:"address,omitempty"`
	MaxUsers     int    `json:"maxUsers,omitempty"`
	MaxStations  int    `json:"maxStations,omitempty"`
	MaxChargers  int    `json:"maxChargers,omitempty"`
	ExpireTime   string `json:"expireTime,omitempty"`
	Status       int    `json:"status"`
}

// TenantNode 租户树节点
type TenantNode struct {
	Tenant
	Children []*TenantNode `json:"children,omitempty"`
}

// TenantStatistics 租户统计
type TenantStatistics struct {
	TotalTenants  int64 `json:"totalTenants"`
	ActiveTenants int64 `json:"activeTenants"`
	ExpiredCount  int64 `json:"expiredCount"`
}

// ListTenants 租户列表（分页）
func (c *Client) ListTenants(ctx context.Context, q TenantQuery) (*PageResult[Tenant], error) {
	req := EndpointTenantList.Request()
	req.Query = q.values()
	return invoke[*PageResult[Tenant]](ctx, c, req)
}

// PageTenants 租户分页
func (c *Client) PageTenants(ctx context.Context, q TenantQuery) (*PageResult[Tenant], error) {
	req := EndpointTenantPage.Request()
	req.Query = q.values()
	return invoke[*PageResult[Tenant]](ctx, c, req)
}

// GetTenant 租户详情
func (c *Client) GetTenant(ctx context.Context, id int64) (*Tenant, error) {
	return invoke[*Tenant](ctx, c, EndpointTenantGet.Request(id))
}

// CreateTenant 新增租户
func (c *Client) CreateTenant(ctx context.Context, form TenantForm) (*Tenant, error) {
	req := EndpointTenantCreate.Request()
	req.Body = form
	return invoke[*Tenant](ctx, c, req)
}

// UpdateTenant 更新租户
func (c *Client) UpdateTenant(ctx context.Context, id int64, form TenantForm) error {
	req := EndpointTenantUpdate.Request(id)
	req.Body = form
	return exec(ctx, c, req)
}

// DeleteTenant 删除租户
func (c *Client) DeleteTenant(ctx context.Context, id int64) error {
	return exec(ctx, c, EndpointTenantDelete.Request(id))
}

// GetTenantTree 租户树
func (c *Client) GetTenantTree(ctx context.Context) ([]*TenantNode, error) {
	return invoke[[]*TenantNode](ctx, c, EndpointTenantTree.Request())
}

// GetTenantChildren 直接子租户
func (c *Client) GetTenantChildren(ctx context.Context, parentID int64) ([]Tenant, error) {
	return invoke[[]Tenant](ctx, c, EndpointTenantChildren.Request(parentID))
}

// ChangeTenantStatus 启用/停用租户
func (c *Client) ChangeTenantStatus(ctx context.Context, id int64, status int) error {
	req := EndpointTenantStatus.Request(id)
	req.Query = url.Values{"status": {strconv.Itoa(status)}}
	return exec(ctx, c, req)
}

// CheckTenantCode 租户编码是否可用
func (c *Client) CheckTenantCode(ctx context.Context, code string) (bool, error) {
	req := EndpointTenantCheckCode.Request()
	req.Query = url.Values{"tenantCode": {code}}
	return invoke[bool](ctx, c, req)
}

// GetTenantStatistics 租户统计
func (c *Client) GetTenantStatistics(ctx context.Context) (*TenantStatistics, error) {
	return invoke[*TenantStatistics](ctx, c, EndpointTenantStatistics.Request())
}

// BuildTenantTree 按 parentId 把平铺的租户列表组装成树
// 父节点不在列表中的租户作为根节点；同级按 ID 升序
func BuildTenantTree(tenants []Tenant) []*TenantNode {
	nodes := make(map[int64]*TenantNode, len(tenants))
	order := make([]int64, 0, len(tenants))
	for _, t := range tenants {
		if _, dup := nodes[t.ID]; dup {
			continue
		}
		nodes[t.ID] = &TenantNode{Tenant: t}
		order = append(order, t.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	roots := make([]*TenantNode, 0)
	for _, id := range order {
		n := nodes[id]
		parent, ok := nodes[n.ParentID]
		if !ok || n.ParentID == 0 || n.ParentID == n.ID {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}
