// Package export 订单导出工作簿的读写
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// OrderSheet 本地生成工作簿的工作表名
const OrderSheet = "Orders"

// OrderHeader 本地生成工作簿的表头
var OrderHeader = []string{
	"订单号",
	"用户",
	"充电站",
	"充电桩",
	"开始时间",
	"结束时间",
	"充电时长(分钟)",
	"充电电量(kWh)",
	"订单金额(元)",
	"状态",
	"创建时间",
}

// Sheet 工作表概要
type Sheet struct {
	Name   string   `json:"name"`
	Header []string `json:"header"`
	Rows   int      `json:"rows"` // 不含表头
}

// Summary 工作簿概要
type Summary struct {
	Sheets []Sheet `json:"sheets"`
}

// TotalRows 所有工作表的数据行数
func (s *Summary) TotalRows() int {
	n := 0
	for _, sh := range s.Sheets {
		n += sh.Rows
	}
	return n
}

// Inspect 读取工作簿的工作表、表头与数据行数
func Inspect(data []byte) (*Summary, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	summary := &Summary{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		sh := Sheet{Name: name}
		if len(rows) > 0 {
			sh.Header = rows[0]
			sh.Rows = len(rows) - 1
		}
		summary.Sheets = append(summary.Sheets, sh)
	}
	return summary, nil
}

// WriteOrders 由订单列表生成工作簿，后端导出不可用时使用
func WriteOrders(orders []evcs.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrderSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, 1, toCells(OrderHeader)); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(OrderHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(OrderSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(OrderSheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(OrderSheet, "B", "K", 16); err != nil {
		return nil, err
	}

	for i, o := range orders {
		row := []interface{}{
			o.OrderNo,
			firstNonEmpty(o.UserName, fmt.Sprint(o.UserID)),
			firstNonEmpty(o.StationName, fmt.Sprint(o.StationID)),
			firstNonEmpty(o.ChargerCode, fmt.Sprint(o.ChargerID)),
			o.StartTime,
			o.EndTime,
			o.ChargingDuration,
			o.ChargingAmount,
			o.TotalAmount,
			string(o.Status),
			o.CreateTime,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(OrderSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
