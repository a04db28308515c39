package model

import "time"

const (
	ListPrivacyPublic  = "PUBLIC"
	ListPrivacyPrivate = "PRIVATE"
)

// UserList 用户创建的文章收藏列表，增删改不在本服务内
type UserList struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	AuthorID  uint64    `gorm:"not null;index:idx_user_lists_author_id" json:"authorId"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Privacy   string    `gorm:"type:varchar(16);not null;default:'PUBLIC'" json:"privacy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserList) TableName() string {
	return "user_lists"
}

// UserListArticle 列表与文章的关联
type UserListArticle struct {
	ListID    uint64    `gorm:"primaryKey"`
	ArticleID uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index:idx_user_list_articles_created_at"`
}

func (UserListArticle) TableName() string {
	return "user_list_articles"
}
