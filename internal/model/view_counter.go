package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ArticleViewCounter 文章浏览计数，sessions/buckets 只保留保留窗口内的数据
type ArticleViewCounter struct {
	ArticleID  uint64     `gorm:"primaryKey" json:"articleId"`
	TotalViews int64      `gorm:"not null;default:0" json:"totalViews"`
	Sessions   SessionMap `gorm:"type:json;not null" json:"sessions"`
	Buckets    BucketMap  `gorm:"type:json;not null" json:"buckets"`
	Version    int64      `gorm:"not null;default:0" json:"version"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (ArticleViewCounter) TableName() string {
	return "article_view_counters"
}

// SessionMap 会话 -> 上一次被计数的浏览时间
type SessionMap map[string]time.Time

func (m SessionMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *SessionMap) Scan(value interface{}) error {
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, m)
}

// BucketMap 时间桶 -> 桶内浏览数
type BucketMap map[string]int64

func (m BucketMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *BucketMap) Scan(value interface{}) error {
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, m)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
	}
}
