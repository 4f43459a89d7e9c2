package evcs

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// 仪表盘接口
var (
	EndpointDashboardStats         = Endpoint{Name: "dashboard.statistics", Method: http.MethodGet, Pattern: "/dashboard/statistics"}
	EndpointDashboardChargerStatus = Endpoint{Name: "dashboard.charger_status", Method: http.MethodGet, Pattern: "/dashboard/charger-status"}
	EndpointRecentOrders           = Endpoint{Name: "dashboard.recent_orders", Method: http.MethodGet, Pattern: "/dashboard/recent-orders"}
	EndpointChargingTrend          = Endpoint{Name: "dashboard.charging_trend", Method: http.MethodGet, Pattern: "/dashboard/charging-trend"}
	EndpointRevenueTrend           = Endpoint{Name: "dashboard.revenue_trend", Method: http.MethodGet, Pattern: "/dashboard/revenue-trend"}
	EndpointStationRanking         = Endpoint{Name: "dashboard.station_ranking", Method: http.MethodGet, Pattern: "/dashboard/station-ranking"}
)

// 默认值
const (
	DefaultRecentOrderLimit = 10
	DefaultTrendDays        = 7
)

// DashboardStats 总览统计
type DashboardStats struct {
	TenantCount         int64   `json:"tenantCount"`
	UserCount           int64   `json:"userCount"`
	StationCount        int64   `json:"stationCount"`
	ChargerCount        int64   `json:"chargerCount"`
	TodayOrderCount     int64   `json:"todayOrderCount"`
	TodayChargingAmount float64 `json:"todayChargingAmount"`
	TodayRevenue        float64 `json:"todayRevenue"`
}

// ChargerStatusStats 充电桩状态分布
type ChargerStatusStats struct {
	Online   int64 `json:"online"`
	Offline  int64 `json:"offline"`
	Charging int64 `json:"charging"`
	Idle     int64 `json:"idle"`
}

// RecentOrder 最近订单
type RecentOrder struct {
	OrderID     FlexString `json:"orderId"`
	StationName string     `json:"stationName"`
	ChargerCode string     `json:"chargerCode"`
	UserName    string     `json:"userName"`
	Amount      float64    `json:"amount"`
	Status      FlexString `json:"status"`
	CreateTime  string     `json:"createTime"`
}

// StationRank 充电站排行
type StationRank struct {
	StationID   int64   `json:"stationId"`
	StationName string  `json:"stationName"`
	OrderCount  int64   `json:"orderCount"`
	Revenue     float64 `json:"revenue"`
}

// GetDashboardStats 总览统计
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	return invoke[*DashboardStats](ctx, c, EndpointDashboardStats.Request())
}

// GetChargerStatusStats 充电桩状态分布
func (c *Client) GetChargerStatusStats(ctx context.Context) (*ChargerStatusStats, error) {
	return invoke[*ChargerStatusStats](ctx, c, EndpointDashboardChargerStatus.Request())
}

// GetRecentOrders 最近订单，limit<=0 时取默认 10 条
func (c *Client) GetRecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	if limit <= 0 {
		limit = DefaultRecentOrderLimit
	}
	req := EndpointRecentOrders.Request()
	req.Query = url.Values{"limit": {strconv.Itoa(limit)}}
	return invoke[[]RecentOrder](ctx, c, req)
}

// GetChargingTrend 充电量趋势，days<=0 时取默认 7 天
func (c *Client) GetChargingTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	return c.trend(ctx, EndpointChargingTrend, days)
}

// GetRevenueTrend 收入趋势，days<=0 时取默认 7 天
func (c *Client) GetRevenueTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	return c.trend(ctx, EndpointRevenueTrend, days)
}

func (c *Client) trend(ctx context.Context, e Endpoint, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	req := e.Request()
	req.Query = url.Values{"days": {strconv.Itoa(days)}}
	return invoke[[]TrendPoint](ctx, c, req)
}

// GetStationRanking 充电站排行
func (c *Client) GetStationRanking(ctx context.Context, limit int) ([]StationRank, error) {
	req := EndpointStationRanking.Request()
	req.Query = url.Values{}
	setInt(req.Query, "limit", limit)
	return invoke[[]StationRank](ctx, c, req)
}
