package repository

import (
	"Parchment/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthorRepo 作者候选池与作者分类足迹
type AuthorRepo interface {
	ScanAuthorPool(ctx context.Context, excludeIDs []uint64, batchSize int) ([]*AuthorCandidate, error)
	ComputeFootprint(ctx context.Context, authorID uint64) (*model.AuthorFootprint, error)
	SaveFootprint(ctx context.Context, footprint *model.AuthorFootprint) error
	DeleteFootprint(ctx context.Context, authorID uint64) error
	ListAuthorIDs(ctx context.Context) ([]uint64, error)
}

// AuthorCandidate 打分只需要的作者字段
type AuthorCandidate struct {
	AuthorID   uint64
	Categories model.IDList
	CreatedAt  time.Time
}

type AuthorRepoImpl struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) AuthorRepo {
	return &AuthorRepoImpl{db: db}
}

// ScanAuthorPool 按作者 ID 分批读出全部有文章且未注销的作者足迹，不预先截断
func (s *AuthorRepoImpl) ScanAuthorPool(ctx context.Context, excludeIDs []uint64, batchSize int) ([]*AuthorCandidate, error) {
	if batchSize <= 0 {
		batchSize = DefaultScanBatchSize
	}
	pool := make([]*AuthorCandidate, 0)
	var lastID uint64
	for {
		batch := make([]*AuthorCandidate, 0, batchSize)
		query := s.db.WithContext(ctx).
			Table("author_footprints").
			Select("author_footprints.author_id, author_footprints.categories, users.created_at").
			Joins("JOIN users ON users.id = author_footprints.author_id AND users.is_delete = ?", false).
			Where("author_footprints.article_count > 0").
			Where("author_footprints.author_id > ?", lastID)
		if len(excludeIDs) > 0 {
			query = query.Where("author_footprints.author_id NOT IN ?", excludeIDs)
		}
		err := query.Order("author_footprints.author_id asc").
			Limit(batchSize).
			Scan(&batch).Error
		if err != nil {
			return nil, err
		}
		pool = append(pool, batch...)
		if len(batch) < batchSize {
			return pool, nil
		}
		lastID = batch[len(batch)-1].AuthorID
	}
}

// ComputeFootprint 从文章表重新计算作者发表过的分类并集
func (s *AuthorRepoImpl) ComputeFootprint(ctx context.Context, authorID uint64) (*model.AuthorFootprint, error) {
	db := s.db.WithContext(ctx)

	var count int64
	err := db.Model(&model.Article{}).
		Where("author_id = ? AND is_deleted = ?", authorID, false).
		Count(&count).Error
	if err != nil {
		return nil, errors.Wrap(err, "count author articles")
	}

	categories := make([]uint64, 0)
	err = db.Table("article_categories AS ac").
		Distinct("ac.category_id").
		Joins("JOIN articles a ON a.id = ac.article_id").
		Where("a.author_id = ? AND a.is_deleted = ?", authorID, false).
		Order("ac.category_id asc").
		Pluck("ac.category_id", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "collect author categories")
	}

	return &model.AuthorFootprint{
		AuthorID:     authorID,
		Categories:   categories,
		ArticleCount: count,
		UpdatedAt:    time.Now(),
	}, nil
}

func (s *AuthorRepoImpl) SaveFootprint(ctx context.Context, footprint *model.AuthorFootprint) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "author_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"categories", "article_count", "updated_at"}),
		}).
		Create(footprint).Error
}

func (s *AuthorRepoImpl) DeleteFootprint(ctx context.Context, authorID uint64) error {
	return s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&model.AuthorFootprint{}).Error
}

// ListAuthorIDs 所有发表过未删除文章的作者
func (s *AuthorRepoImpl) ListAuthorIDs(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Distinct("author_id").
		Where("is_deleted = ?", false).
		Order("author_id asc").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
