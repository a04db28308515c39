package repository

import (
	"Parchment/internal/model"
	"context"

	"gorm.io/gorm"
)

type CategoryRepo interface {
	GetAll(ctx context.Context) ([]*model.Category, error)
	GetByIds(ctx context.Context, ids []uint64) ([]*model.Category, error)
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{db: db}
}

// GetAll 按 ID 升序返回全部分类
func (s *CategoryRepoImpl) GetAll(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	if err := s.db.WithContext(ctx).Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryRepoImpl) GetByIds(ctx context.Context, ids []uint64) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	if len(ids) == 0 {
		return categories, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
