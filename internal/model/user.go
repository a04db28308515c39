package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Fullname  string    `gorm:"type:varchar(64)" json:"fullname"`
	Email     string    `gorm:"type:varchar(128)" json:"-"`
	Bio       string    `gorm:"type:varchar(255)" json:"bio"`
	Avatar    string    `gorm:"type:varchar(255)" json:"avatar"`
	IsDelete  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
