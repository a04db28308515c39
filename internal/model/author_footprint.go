package model

import (
	"database/sql/driver"
	"time"

	"github.com/goccy/go-json"
)

// AuthorFootprint 作者发表过的所有文章分类的并集快照，由定时任务维护
type AuthorFootprint struct {
	AuthorID     uint64    `gorm:"primaryKey" json:"authorId"`
	Categories   IDList    `gorm:"type:json;not null" json:"categories"`
	ArticleCount int64     `gorm:"not null;default:0" json:"articleCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Author       *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (AuthorFootprint) TableName() string {
	return "author_footprints"
}

// IDList 以 JSON 数组存储的 ID 列表
type IDList []uint64

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(value interface{}) error {
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}
