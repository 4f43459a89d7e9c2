package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// ==================== WriteOrders 测试 ====================

func TestWriteOrders(t *testing.T) {
	orders := []evcs.Order{
		{OrderNo: "EV001", UserName: "张三", StationID: 2, ChargerCode: "C-01", TotalAmount: 12.5, Status: "COMPLETED"},
		{OrderNo: "EV002", UserID: 9, StationName: "东站", ChargerID: 4, ChargingDuration: 30, Status: "1"},
	}

	data, err := WriteOrders(orders)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrderSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, OrderHeader, rows[0])
	assert.Equal(t, "EV001", rows[1][0])
	assert.Equal(t, "张三", rows[1][1])
	assert.Equal(t, "2", rows[1][2], "缺少名称时使用 ID")
	assert.Equal(t, "12.5", rows[1][8])
	assert.Equal(t, "9", rows[2][1])
	assert.Equal(t, "东站", rows[2][2])
	assert.Equal(t, "4", rows[2][3])
}

// ==================== Inspect 测试 ====================

func TestInspect(t *testing.T) {
	data, err := WriteOrders([]evcs.Order{{OrderNo: "A"}, {OrderNo: "B"}, {OrderNo: "C"}})
	require.NoError(t, err)

	summary, err := Inspect(data)
	require.NoError(t, err)
	require.Len(t, summary.Sheets, 1)
	assert.Equal(t, OrderSheet, summary.Sheets[0].Name)
	assert.Equal(t, OrderHeader, summary.Sheets[0].Header)
	assert.Equal(t, 3, summary.TotalRows())
}

func TestInspect_Empty(t *testing.T) {
	data, err := WriteOrders(nil)
	require.NoError(t, err)

	summary, err := Inspect(data)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRows())
}

func TestInspect_NotWorkbook(t *testing.T) {
	_, err := Inspect([]byte(`{"code":500}`))
	assert.ErrorContains(t, err, "failed to open workbook")
}
