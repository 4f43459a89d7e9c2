package evcs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// 充电桩接口
var (
	EndpointChargerList    = Endpoint{Name: "charger.list", Method: http.MethodGet, Pattern: "/charger/list"}
	EndpointChargerGet     = Endpoint{Name: "charger.get", Method: http.MethodGet, Pattern: "/charger/%d"}
	EndpointChargerCreate  = Endpoint{Name: "charger.create", Method: http.MethodPost, Pattern: "/charger"}
	EndpointChargerUpdate  = Endpoint{Name: "charger.update", Method: http.MethodPut, Pattern: "/charger/%d"}
	EndpointChargerDelete  = Endpoint{Name: "charger.delete", Method: http.MethodDelete, Pattern: "/charger/%d"}
	EndpointChargerStatus  = Endpoint{Name: "charger.status", Method: http.MethodGet, Pattern: "/charger/%d/status", Developing: true}
	EndpointChargerControl = Endpoint{Name: "charger.control", Method: http.MethodPost, Pattern: "/charger/%d/control", Developing: true}
)

// ChargerAction 远程控制指令
type ChargerAction string

// 远程控制指令
const (
	ChargerStart ChargerAction = "start"
	ChargerStop  ChargerAction = "stop"
)

// ChargerQuery 充电桩列表查询参数
type ChargerQuery struct {
	ChargerCode string
	StationID   int64
	Status      *int
	PageQuery
}

func (q ChargerQuery) values() url.Values {
	v := url.Values{}
	setString(v, "chargerCode", q.ChargerCode)
	setInt64(v, "stationId", q.StationID)
	setIntPtr(v, "status", q.Status)
	q.PageQuery.apply(v)
	return v
}

// Charger 充电桩
type Charger struct {
	ID            int64      `json:"id"`
	ChargerCode   string     `json:"chargerCode"`
	StationID     int64      `json:"stationId"`
	StationName   string     `json:"stationName,omitempty"`
	ChargerType   FlexString `json:"chargerType"`
	Power         float64    `json:"power"`
	Voltage       float64    `json:"voltage"`
	Current       float64    `json:"current"`
	Status        int        `json:"status"`
	ConnectorType string     `json:"connectorType"`
	Price         float64    `json:"price"`
	TenantID      int64      `json:"tenantId"`
	CreateTime    string     `json:"createTime,omitempty"`
	UpdateTime    string     `json:"updateTime,omitempty"`
}

// ChargerForm 充电桩表单
type ChargerForm struct {
	ChargerCode   string  `json:"chargerCode"`
	StationID     int64   `json:"stationId"`
	ChargerType   string  `json:"chargerType"`
	Power         float64 `json:"power"`
	Voltage       float64 `json:"voltage"`
	Current       float64 `json:"current"`
	ConnectorType string  `json:"connectorType"`
	Price         float64 `json:"price"`
	Status        int     `json:"status"`
}

// ChargerRealtime 充电桩实时状态
type ChargerRealtime struct {
	ChargerID  int64   `json:"chargerId"`
	Status     int     `json:"status"`
	Online     bool    `json:"online"`
	Voltage    float64 `json:"voltage"`
	Current    float64 `json:"current"`
	Power      float64 `json:"power"`
	OrderNo    string  `json:"orderNo,omitempty"`
	ReportTime string  `json:"reportTime,omitempty"`
}

// ListChargers 充电桩列表
func (c *Client) ListChargers(ctx context.Context, q ChargerQuery) (*PageResult[Charger], error) {
	req := EndpointChargerList.Request()
	req.Query = q.values()
	return invoke[*PageResult[Charger]](ctx, c, req)
}

// GetCharger 充电桩详情
func (c *Client) GetCharger(ctx context.Context, id int64) (*Charger, error) {
	return invoke[*Charger](ctx, c, EndpointChargerGet.Request(id))
}

// CreateCharger 新增充电桩
func (c *Client) CreateCharger(ctx context.Context, form ChargerForm) (*Charger, error) {
	req := EndpointChargerCreate.Request()
	req.Body = form
	return invoke[*Charger](ctx, c, req)
}

// UpdateCharger 更新充电桩
func (c *Client) UpdateCharger(ctx context.Context, id int64, form ChargerForm) error {
	req := EndpointChargerUpdate.Request(id)
	req.Body = form
	return exec(ctx, c, req)
}

// DeleteCharger 删除充电桩
func (c *Client) DeleteCharger(ctx context.Context, id int64) error {
	return exec(ctx, c, EndpointChargerDelete.Request(id))
}

// GetChargerStatus 充电桩实时状态
func (c *Client) GetChargerStatus(ctx context.Context, id int64) (*ChargerRealtime, error) {
	return invoke[*ChargerRealtime](ctx, c, EndpointChargerStatus.Request(id))
}

// ControlCharger 远程启动/停止充电桩
func (c *Client) ControlCharger(ctx context.Context, id int64, action ChargerAction) error {
	if action != ChargerStart && action != ChargerStop {
		return fmt.Errorf("evcs: unsupported charger action %q", action)
	}
	req := EndpointChargerControl.Request(id)
	req.Body = map[string]ChargerAction{"action": action}
	return exec(ctx, c, req)
}
