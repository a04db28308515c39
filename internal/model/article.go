package model

import "time"

type Article struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	AuthorID   uint64     `gorm:"not null;index:idx_articles_author_id" json:"authorId"`
	Slug       string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle   string     `gorm:"type:varchar(255)" json:"subtitle"`
	Body       string     `gorm:"type:longtext" json:"body"`
	Thumbnail  string     `gorm:"type:varchar(255)" json:"thumbnail"`
	Picked     bool       `gorm:"not null;default:false" json:"picked"`
	Views      int64      `gorm:"not null;default:0;index:idx_articles_views" json:"views"`
	Likes      int64      `gorm:"not null;default:0" json:"likes"`
	IsDeleted  bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt  time.Time  `gorm:"index:idx_articles_created_at" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:article_categories;" json:"categories,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}

// CategoryIDs 返回文章所属分类的 ID 列表
func (a *Article) CategoryIDs() []uint64 {
	ids := make([]uint64, 0, len(a.Categories))
	for _, c := range a.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
