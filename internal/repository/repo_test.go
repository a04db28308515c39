package repository

import (
	"Parchment/internal/model"
	"Parchment/internal/pkg/database/dbtest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}

// seed 两个作者、三个分类、四篇文章（a4 已删除）
func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	users := []*model.User{
		{ID: 1, Username: "ada", CreatedAt: t0.Add(-48 * time.Hour)},
		{ID: 2, Username: "bob", CreatedAt: t0.Add(-24 * time.Hour)},
		{ID: 3, Username: "cy", CreatedAt: t0.Add(-12 * time.Hour)},
	}
	require.NoError(t, db.Create(users).Error)

	cats := []*model.Category{
		{ID: 1, Title: "go", CreatedAt: t0},
		{ID: 2, Title: "rust", CreatedAt: t0},
		{ID: 3, Title: "db", CreatedAt: t0},
	}
	require.NoError(t, db.Create(cats).Error)

	articles := []*model.Article{
		{ID: 1, AuthorID: 1, Slug: "a1", Title: "Go tips", Views: 10, CreatedAt: t0, Categories: []model.Category{*cats[0]}},
		{ID: 2, AuthorID: 2, Slug: "a2", Title: "Rust", Views: 5, CreatedAt: t0.Add(time.Hour), Categories: []model.Category{*cats[0], *cats[1]}},
		{ID: 3, AuthorID: 2, Slug: "a3", Title: "Going far", Views: 20, CreatedAt: t0.Add(2 * time.Hour), Categories: []model.Category{*cats[2]}},
		{ID: 4, AuthorID: 1, Slug: "a4", Title: "Gone", Views: 99, IsDeleted: true, CreatedAt: t0, Categories: []model.Category{*cats[1]}},
	}
	require.NoError(t, db.Create(articles).Error)
}
