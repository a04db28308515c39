package model

import "time"

type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey" json:"followerId"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_user_follows_following_id" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
	Following   *User     `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
