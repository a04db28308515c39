package repository

import (
	"Parchment/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserListRepo interface {
	GetList(ctx context.Context, id uint64) (*model.UserList, error)
	GetListsByIds(ctx context.Context, ids []uint64) ([]*model.UserList, error)
}

type UserListRepoImpl struct {
	db *gorm.DB
}

func NewUserListRepo(db *gorm.DB) UserListRepo {
	return &UserListRepoImpl{db: db}
}

func (s *UserListRepoImpl) GetList(ctx context.Context, id uint64) (*model.UserList, error) {
	list := &model.UserList{}
	if err := s.db.WithContext(ctx).First(list, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (s *UserListRepoImpl) GetListsByIds(ctx context.Context, ids []uint64) ([]*model.UserList, error) {
	lists := make([]*model.UserList, 0)
	if len(ids) == 0 {
		return lists, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}
