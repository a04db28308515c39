package kafka

import (
	"Parchment/internal/pkg/util"
	"fmt"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前被修改字段的旧值
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// OldRow 第 i 行的旧值，没有时返回 nil
func (m *CanalMessage) OldRow(i int) map[string]interface{} {
	if i < len(m.Old) {
		return m.Old[i]
	}
	return nil
}

// StrToUint64 canal 中数字以字符串传递
func StrToUint64(v interface{}) uint64 {
	return util.StrToUint64(v)
}

// StrToBool tinyint(1) 字段
func StrToBool(v interface{}) bool {
	switch val := v.(type) {
	case string:
		return val == "1" || val == "true"
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return false
	}
}

func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
