package es

import (
	"Parchment/internal/model"
	"time"
)

// ArticleES 写入 ES 的文章文档，只用于文本检索
type ArticleES struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Body        string    `json:"body"`
	CategoryIDs []uint64  `json:"category_ids"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewArticleES(a *model.Article) *ArticleES {
	return &ArticleES{
		ID:          a.ID,
		AuthorID:    a.AuthorID,
		Slug:        a.Slug,
		Title:       a.Title,
		Subtitle:    a.Subtitle,
		Body:        a.Body,
		CategoryIDs: a.CategoryIDs(),
		Views:       a.Views,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
