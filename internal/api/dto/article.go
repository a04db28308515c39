package dto

import "time"

type ArticleDTO struct {
	ID         uint64         `json:"id"`
	Slug       string         `json:"slug"`
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle"`
	Thumbnail  string         `json:"thumbnail"`
	Picked     bool           `json:"picked"`
	Views      int64          `json:"views"`
	Likes      int64          `json:"likes"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Author     *AuthorDTO     `json:"author,omitempty"`
	Categories []*CategoryDTO `json:"categories"`
}

// AuthorDTO 作者简要信息
type AuthorDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

type CategoryDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Query     string `json:"query"`
	Color     string `json:"color"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ArticleListQuery 文章列表查询参数
type ArticleListQuery struct {
	UserBased int    `form:"userbased" validate:"oneof=-1 0 1"`
	Page      int    `form:"page" validate:"gte=0"`
	Limit     int    `form:"limit" validate:"gte=0"`
	Search    string `form:"search" validate:"max=100"`
	Category  string `form:"category"`
	Author    uint64 `form:"author"`
	Sort      string `form:"sort" validate:"omitempty,oneof=views recent"`
}

// CategoryQuery 分类列表查询参数
type CategoryQuery struct {
	UserBased int `form:"userbased" validate:"oneof=-1 0 1"`
	Limit     int `form:"limit" validate:"gte=0"`
}
