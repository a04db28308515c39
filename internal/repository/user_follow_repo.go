package repository

import (
	"Parchment/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserFollowRepo 关注关系的读取，写入由用户服务负责
type UserFollowRepo interface {
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetFollowingIDs(ctx context.Context, userID uint64) ([]*model.UserFollow, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetUserFollowing 获取用户的关注列表，附带被关注者信息
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	query := s.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at desc").
		Order("following_id asc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&userFollows).Error; err != nil {
		return nil, err
	}
	return userFollows, nil
}

// GetFollowingIDs 只取关注关系本身，用于回填缓存
func (s *UserFollowRepoImpl) GetFollowingIDs(ctx context.Context, userID uint64) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := s.db.WithContext(ctx).
		Select("follower_id", "following_id", "created_at").
		Where("follower_id = ?", userID).
		Find(&userFollows)
	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowingCount 获取用户的关注数量
func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
