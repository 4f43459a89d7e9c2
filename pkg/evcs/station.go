package evcs

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// 充电站接口
var (
	EndpointStationList     = Endpoint{Name: "station.list", Method: http.MethodGet, Pattern: "/station/list"}
	EndpointStationGet      = Endpoint{Name: "station.get", Method: http.MethodGet, Pattern: "/station/%d"}
	EndpointStationCreate   = Endpoint{Name: "station.create", Method: http.MethodPost, Pattern: "/station"}
	EndpointStationUpdate   = Endpoint{Name: "station.update", Method: http.MethodPut, Pattern: "/station/%d"}
	EndpointStationDelete   = Endpoint{Name: "station.delete", Method: http.MethodDelete, Pattern: "/station/%d"}
	EndpointStationChargers = Endpoint{Name: "station.chargers", Method: http.MethodGet, Pattern: "/station/%d/chargers"}
	EndpointStationStatus   = Endpoint{Name: "station.status", Method: http.MethodPut, Pattern: "/station/%d/status"}
)

// StationQuery 充电站列表查询参数
type StationQuery struct {
	StationName string
	Province    string
	City        string
	Status      *int
	PageQuery
}

func (q StationQuery) values() url.Values {
	v := url.Values{}
	setString(v, "stationName", q.StationName)
	setString(v, "province", q.Province)
	setString(v, "city", q.City)
	setIntPtr(v, "status", q.Status)
	q.PageQuery.apply(v)
	return v
}

// Station 充电站
type Station struct {
	ID                int64   `json:"id"`
	StationCode       string  `json:"stationCode"`
	StationName       string  `json:"stationName"`
	Province          string  `json:"province"`
	City              string  `json:"city"`
	District          string  `json:"district,omitempty"`
	Address           string  `json:"address"`
	Longitude         float64 `json:"longitude,omitempty"`
	Latitude          float64 `json:"latitude,omitempty"`
	ContactName       string  `json:"contactName,omitempty"`
	ContactPhone      string  `json:"contactPhone,omitempty"`
	TotalChargers     int     `json:"totalChargers"`
	AvailableChargers int     `json:"availableChargers"`
	Status            int     `json:"status"`
	TenantID          int64   `json:"tenantId"`
	CreateTime        string  `json:"createTime,omitempty"`
	UpdateTime        string  `json:"updateTime,omitempty"`
}

// StationForm 充电站表单
type StationForm struct {
	StationCode  string  `json:"stationCode"`
	StationName  string  `json:"stationName"`
	Province     string  `json:"province"`
	City         string  `json:"city"`
	District     string  `json:"district,omitempty"`
	Address      string  `json:"address"`
	Longitude    float64 `json:"longitude,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	ContactName  string  `json:"contactName,omitempty"`
	ContactPhone string  `json:"contactPhone,omitempty"`
	Status       int     `json:"status"`
}

// ListStations 充电站列表
func (c *Client) ListStations(ctx context.Context, q StationQuery) (*PageResult[Station], error) {
	req := EndpointStationList.Request()
	req.Query = q.values()
	return invoke[*PageResult[Station]](ctx, c, req)
}

// GetStation 充电站详情
func (c *Client) GetStation(ctx context.Context, id int64) (*Station, error) {
	return invoke[*Station](ctx, c, EndpointStationGet.Request(id))
}

// CreateStation 新增充电站
func (c *Client) CreateStation(ctx context.Context, form StationForm) (*Station, error) {
	req := EndpointStationCreate.Request()
	req.Body = form
	return invoke[*Station](ctx, c, req)
}

// UpdateStation 更新充电站
func (c *Client) UpdateStation(ctx context.Context, id int64, form StationForm) error {
	req := EndpointStationUpdate.Request(id)
	req.Body = form
	return exec(ctx, c, req)
}

// DeleteStation 删除充电站
func (c *Client) DeleteStation(ctx context.Context, id int64) error {
	return exec(ctx, c, EndpointStationDelete.Request(id))
}

// GetStationChargers 充电站下的充电桩
func (c *Client) GetStationChargers(ctx context.Context, stationID int64) ([]Charger, error) {
	return invoke[[]Charger](ctx, c, EndpointStationChargers.Request(stationID))
}

// ChangeStationStatus 修改充电站状态
func (c *Client) ChangeStationStatus(ctx context.Context, id int64, status int) error {
	req := EndpointStationStatus.Request(id)
	req.Query = url.Values{"status": {strconv.Itoa(status)}}
	return exec(ctx, c, req)
}
