package evcs

import (
	"net/url"
	"strconv"
)

// PageQuery 分页参数，透传给后端
type PageQuery struct {
	Current int
	Size    int
}

func (p PageQuery) apply(v url.Values) {
	setInt(v, "current", p.Current)
	setInt(v, "size", p.Size)
}

// PageResult 分页结果
type PageResult[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int64 `json:"size"`
	Current int64 `json:"current,omitempty"`
	Page    int64 `json:"page,omitempty"`
	Pages   int64 `json:"pages"`
}

// TrendPoint 趋势数据点
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Download 二进制下载结果
type Download struct {
	ContentType string
	Filename    string
	Data        []byte
}

// 可选查询参数：零值不发送

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value != 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

func setInt64(v url.Values, key string, value int64) {
	if value != 0 {
		v.Set(key, strconv.FormatInt(value, 10))
	}
}

// setIntPtr 状态类参数 0 为合法值，用指针区分缺省
func setIntPtr(v url.Values, key string, value *int) {
	if value != nil {
		v.Set(key, strconv.Itoa(*value))
	}
}

// Int 返回指针，便于填写可选状态参数
func Int(v int) *int {
	return &v
}

// FlexString 兼容后端以数字或字符串返回的枚举字段
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}
