package model

type ArticleCategory struct {
	ArticleID  uint64 `gorm:"primaryKey"`
	CategoryID uint64 `gorm:"primaryKey;index:idx_article_categories_category_id"`
}

func (ArticleCategory) TableName() string {
	return "article_categories"
}
