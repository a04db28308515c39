package model

import "time"

type Category struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"title"`
	Query     string    `gorm:"type:varchar(64)" json:"query"`
	Color     string    `gorm:"type:varchar(16)" json:"color"`
	Thumbnail string    `gorm:"type:varchar(255)" json:"thumbnail"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
