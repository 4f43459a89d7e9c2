package evcs

import (
	"context"
	"mime"
	"net/http"
	"net/url"
)

// 订单接口
var (
	EndpointOrderList       = Endpoint{Name: "order.list", Method: http.MethodGet, Pattern: "/order/list"}
	EndpointOrderGet        = Endpoint{Name: "order.get", Method: http.MethodGet, Pattern: "/order/%d"}
	EndpointOrderCancel     = Endpoint{Name: "order.cancel", Method: http.MethodPost, Pattern: "/order/%d/cancel"}
	EndpointOrderStatistics = Endpoint{Name: "order.statistics", Method: http.MethodGet, Pattern: "/order/statistics", Developing: true}
	EndpointOrderExport     = Endpoint{Name: "order.export", Method: http.MethodGet, Pattern: "/order/export", Developing: true, Blob: true}
)

// OrderQuery 订单列表查询参数
type OrderQuery struct {
	OrderNo   string
	UserID    int64
	StationID int64
	Status    string
	StartTime string
	EndTime   string
	PageQuery
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	setString(v, "orderNo", q.OrderNo)
	setInt64(v, "userId", q.UserID)
	setInt64(v, "stationId", q.StationID)
	setString(v, "status", q.Status)
	setString(v, "startTime", q.StartTime)
	setString(v, "endTime", q.EndTime)
	q.PageQuery.apply(v)
	return v
}

// Order 订单
type Order struct {
	ID               int64      `json:"id"`
	OrderNo          string     `json:"orderNo"`
	UserID           int64      `json:"userId"`
	UserName         string     `json:"userName,omitempty"`
	StationID        int64      `json:"stationId"`
	StationName      string     `json:"stationName,omitempty"`
	ChargerID        int64      `json:"chargerId"`
	ChargerCode      string     `json:"chargerCode,omitempty"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime,omitempty"`
	ChargingDuration int64      `json:"chargingDuration"`
	ChargingAmount   float64    `json:"chargingAmount"`
	TotalAmount      float64    `json:"totalAmount"`
	Status           FlexString `json:"status"`
	TenantID         int64      `json:"tenantId"`
	CreateTime       string     `json:"createTime"`
	UpdateTime       string     `json:"updateTime,omitempty"`
}

// OrderDetail 订单详情
type OrderDetail struct {
	Order
	UserPhone      string  `json:"userPhone,omitempty"`
	StationAddress string  `json:"stationAddress,omitempty"`
	PowerUsed      float64 `json:"powerUsed"`
	ServiceFee     float64 `json:"serviceFee"`
	ParkingFee     float64 `json:"parkingFee"`
	Discount       float64 `json:"discount"`
	PaymentMethod  string  `json:"paymentMethod,omitempty"`
	PaymentTime    string  `json:"paymentTime,omitempty"`
	TransactionID  string  `json:"transactionId,omitempty"`
}

// OrderStatistics 订单统计
type OrderStatistics struct {
	TotalOrders        int64   `json:"totalOrders"`
	CompletedOrders    int64   `json:"completedOrders"`
	ChargingOrders     int64   `json:"chargingOrders"`
	CanceledOrders     int64   `json:"canceledOrders"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalPowerUsed     float64 `json:"totalPowerUsed"`
	AverageOrderAmount float64 `json:"averageOrderAmount"`
}

// ListOrders 订单列表
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) (*PageResult[Order], error) {
	req := EndpointOrderList.Request()
	req.Query = q.values()
	return invoke[*PageResult[Order]](ctx, c, req)
}

// GetOrder 订单详情
func (c *Client) GetOrder(ctx context.Context, id int64) (*OrderDetail, error) {
	return invoke[*OrderDetail](ctx, c, EndpointOrderGet.Request(id))
}

// CancelOrder 取消订单，reason 可为空
func (c *Client) CancelOrder(ctx context.Context, id int64, reason string) error {
	req := EndpointOrderCancel.Request(id)
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	req.Body = body
	return exec(ctx, c, req)
}

// GetOrderStatistics 订单统计，日期格式 yyyy-MM-dd，可为空
func (c *Client) GetOrderStatistics(ctx context.Context, startDate, endDate string) (*OrderStatistics, error) {
	req := EndpointOrderStatistics.Request()
	req.Query = url.Values{}
	setString(req.Query, "startDate", startDate)
	setString(req.Query, "endDate", endDate)
	return invoke[*OrderStatistics](ctx, c, req)
}

// ExportOrders 导出订单，返回原始文件内容
func (c *Client) ExportOrders(ctx context.Context, q OrderQuery) (*Download, error) {
	req := EndpointOrderExport.Request()
	req.Query = q.values()
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Download{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
		Data:        resp.Body,
	}, nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
