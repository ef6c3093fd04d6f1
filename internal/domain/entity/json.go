package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 任意 JSON 值，原样存入 jsonb 列
type JSON json.RawMessage

// Value 实现 driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if j.IsEmpty() {
		return nil, nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("invalid json value")
	}
	return string(j), nil
}

// Scan 实现 sql.Scanner
func (j *JSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("cannot scan %T into entity.JSON", src)
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON 实现 json.Unmarshaler
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("entity.JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// IsEmpty 未设置或为 JSON null
func (j JSON) IsEmpty() bool {
	trimmed := bytes.TrimSpace(j)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Text 返回用于展示与导出的文本；JSON 字符串去掉引号
func (j JSON) Text() string {
	if j.IsEmpty() {
		return ""
	}
	var s string
	if err := json.Unmarshal(j, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(j))
}
