package evcs

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// 计费方案接口
var (
	EndpointBillingPlanList       = Endpoint{Name: "billing.list", Method: http.MethodGet, Pattern: "/billing/plans"}
	EndpointBillingPlanPage       = Endpoint{Name: "billing.page", Method: http.MethodGet, Pattern: "/billing/plans/page"}
	EndpointBillingPlanGet        = Endpoint{Name: "billing.get", Method: http.MethodGet, Pattern: "/billing/plans/%d"}
	EndpointBillingPlanSegments   = Endpoint{Name: "billing.segments", Method: http.MethodGet, Pattern: "/billing/plans/%d/segments"}
	EndpointBillingPlanCreate     = Endpoint{Name: "billing.create", Method: http.MethodPost, Pattern: "/billing/plans"}
	EndpointBillingPlanUpdate     = Endpoint{Name: "billing.update", Method: http.MethodPut, Pattern: "/billing/plans"}
	EndpointBillingPlanDelete     = Endpoint{Name: "billing.delete", Method: http.MethodDelete, Pattern: "/billing/plans/%d"}
	EndpointBillingPlanSetDefault = Endpoint{Name: "billing.set_default", Method: http.MethodPost, Pattern: "/billing/plans/%d/default"}
	EndpointBillingPlanSaveSegs   = Endpoint{Name: "billing.save_segments", Method: http.MethodPost, Pattern: "/billing/plans/%d/segments"}
	EndpointBillingPlanClone      = Endpoint{Name: "billing.clone", Method: http.MethodPost, Pattern: "/billing/plans/%d/clone"}
)

// BillingPlanQuery 计费方案查询参数
type BillingPlanQuery struct {
	StationID int64
	PageQuery
}

func (q BillingPlanQuery) values() url.Values {
	v := url.Values{}
	setInt64(v, "stationId", q.StationID)
	q.PageQuery.apply(v)
	return v
}

// BillingPlan 计费方案
type BillingPlan struct {
	ID         int64      `json:"id,omitempty"`
	PlanCode   string     `json:"planCode,omitempty"`
	PlanName   string     `json:"planName"`
	PlanType   FlexString `json:"planType"`
	StationID  int64      `json:"stationId,omitempty"`
	Status     int        `json:"status"`
	IsDefault  int        `json:"isDefault,omitempty"`
	CreateTime string     `json:"createTime,omitempty"`
	UpdateTime string     `json:"updateTime,omitempty"`
}

// BillingPlanSegment 计费时段
type BillingPlanSegment struct {
	ID               int64   `json:"id,omitempty"`
	PlanID           int64   `json:"planId"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	ElectricityPrice float64 `json:"electricityPrice"`
	ServicePrice     float64 `json:"servicePrice"`
	PeakType         string  `json:"peakType,omitempty"`
}

// ListBillingPlans 计费方案列表
func (c *Client) ListBillingPlans(ctx context.Context, q BillingPlanQuery) ([]BillingPlan, error) {
	req := EndpointBillingPlanList.Request()
	req.Query = q.values()
	return invoke[[]BillingPlan](ctx, c, req)
}

// PageBillingPlans 计费方案分页
func (c *Client) PageBillingPlans(ctx context.Context, q BillingPlanQuery) (*PageResult[BillingPlan], error) {
	req := EndpointBillingPlanPage.Request()
	req.Query = q.values()
	return invoke[*PageResult[BillingPlan]](ctx, c, req)
}

// GetBillingPlan 计费方案详情
func (c *Client) GetBillingPlan(ctx context.Context, planID int64) (*BillingPlan, error) {
	return invoke[*BillingPlan](ctx, c, EndpointBillingPlanGet.Request(planID))
}

// GetBillingPlanSegments 计费时段，保持后端返回顺序
func (c *Client) GetBillingPlanSegments(ctx context.Context, planID int64) ([]BillingPlanSegment, error) {
	return invoke[[]BillingPlanSegment](ctx, c, EndpointBillingPlanSegments.Request(planID))
}

// CreateBillingPlan 新增计费方案
func (c *Client) CreateBillingPlan(ctx context.Context, plan BillingPlan) (*BillingPlan, error) {
	req := EndpointBillingPlanCreate.Request()
	req.Body = plan
	return invoke[*BillingPlan](ctx, c, req)
}

// UpdateBillingPlan 更新计费方案，ID 取自 plan
func (c *Client) UpdateBillingPlan(ctx context.Context, plan BillingPlan) (bool, error) {
	req := EndpointBillingPlanUpdate.Request()
	req.Body = plan
	return invoke[bool](ctx, c, req)
}

// DeleteBillingPlan 删除计费方案
func (c *Client) DeleteBillingPlan(ctx context.Context, planID int64) (bool, error) {
	return invoke[bool](ctx, c, EndpointBillingPlanDelete.Request(planID))
}

// SetDefaultBillingPlan 设为充电站默认方案，同站其他方案由后端取消默认
func (c *Client) SetDefaultBillingPlan(ctx context.Context, planID, stationID int64) (bool, error) {
	req := EndpointBillingPlanSetDefault.Request(planID)
	req.Query = url.Values{"stationId": {strconv.FormatInt(stationID, 10)}}
	return invoke[bool](ctx, c, req)
}

// SaveBillingPlanSegments 覆盖保存计费时段
func (c *Client) SaveBillingPlanSegments(ctx context.Context, planID int64, segments []BillingPlanSegment, requireFullDay bool) (bool, error) {
	if segments == nil {
		segments = []BillingPlanSegment{}
	}
	req := EndpointBillingPlanSaveSegs.Request(planID)
	req.Query = url.Values{"requireFullDay": {strconv.FormatBool(requireFullDay)}}
	req.Body = segments
	return invoke[bool](ctx, c, req)
}

// CloneBillingPlan 复制计费方案及其时段
func (c *Client) CloneBillingPlan(ctx context.Context, planID int64, newName string) (*BillingPlan, error) {
	req := EndpointBillingPlanClone.Request(planID)
	req.Query = url.Values{}
	setString(req.Query, "newName", newName)
	return invoke[*BillingPlan](ctx, c, req)
}
