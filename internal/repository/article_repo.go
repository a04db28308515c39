package repository

import (
	"Parchment/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultScanBatchSize 全量扫描候选池时每批读取的行数
const DefaultScanBatchSize = 500

// ArticleSort 候选池在 SQL 中的预排序方式
type ArticleSort int

const (
	SortByViews ArticleSort = iota
	SortByRecency
	SortByCreation
)

// ContentFilter 候选池过滤条件，零值字段不参与过滤
type ContentFilter struct {
	ExcludeAuthorIDs []uint64
	ExcludeIDs       []uint64
	CategoryIn       []uint64
	IncludeIDs       []uint64
	AuthorID         uint64
	Search           string
}

type ArticleRepo interface {
	GetArticleByID(ctx context.Context, id uint64) (*model.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error)
	GetArticlesByIds(ctx context.Context, ids []uint64) ([]*model.Article, error)
	QueryContentPool(ctx context.Context, filter ContentFilter, sort ArticleSort, limit, offset int) ([]*model.Article, error)
	CountContentPool(ctx context.Context, filter ContentFilter) (int64, error)
	ScanContentPool(ctx context.Context, filter ContentFilter, batchSize int) ([]*ContentCandidate, error)
}

// ContentCandidate 打分只需要的文章字段
type ContentCandidate struct {
	ID         uint64
	AuthorID   uint64
	Views      int64
	CreatedAt  time.Time
	Categories []uint64 `gorm:"-"`
}

type ArticleRepoImpl struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepo {
	return &ArticleRepoImpl{db: db}
}

func (s *ArticleRepoImpl) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.id asc")
		})
}

func (s *ArticleRepoImpl) GetArticleByID(ctx context.Context, id uint64) (*model.Article, error) {
	article := &model.Article{}
	err := s.preload(ctx).
		Where("is_deleted = ?", false).
		First(article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleRepoImpl) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	article := &model.Article{}
	err := s.preload(ctx).
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return article, nil
}

// GetArticlesByIds 批量获取文章，已删除的不返回，顺序不保证
func (s *ArticleRepoImpl) GetArticlesByIds(ctx context.Context, ids []uint64) ([]*model.Article, error) {
	articles := make([]*model.Article, 0)
	if len(ids) == 0 {
		return articles, nil
	}
	err := s.preload(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// QueryContentPool 按过滤条件取候选文章，结果已按 sort 排序，相同时按 ID 升序
func (s *ArticleRepoImpl) QueryContentPool(ctx context.Context, filter ContentFilter, sort ArticleSort, limit, offset int) ([]*model.Article, error) {
	articles := make([]*model.Article, 0)
	query := applyContentFilter(s.preload(ctx), filter)

	switch sort {
	case SortByRecency:
		query = query.Order("articles.created_at desc").Order("articles.id asc")
	case SortByCreation:
		query = query.Order("articles.created_at asc").Order("articles.id asc")
	default:
		query = query.Order("articles.views desc").Order("articles.id asc")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleRepoImpl) CountContentPool(ctx context.Context, filter ContentFilter) (int64, error) {
	var count int64
	err := applyContentFilter(s.db.WithContext(ctx).Model(&model.Article{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ScanContentPool 按 ID 分批读出满足过滤条件的全部候选，不预先截断
func (s *ArticleRepoImpl) ScanContentPool(ctx context.Context, filter ContentFilter, batchSize int) ([]*ContentCandidate, error) {
	if batchSize <= 0 {
		batchSize = DefaultScanBatchSize
	}
	pool := make([]*ContentCandidate, 0)
	var lastID uint64
	for {
		batch := make([]*ContentCandidate, 0, batchSize)
		err := applyContentFilter(s.db.WithContext(ctx).Model(&model.Article{}), filter).
			Select("articles.id", "articles.author_id", "articles.views", "articles.created_at").
			Where("articles.id > ?", lastID).
			Order("articles.id asc").
			Limit(batchSize).
			Find(&batch).Error
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return pool, nil
		}
		if err = s.attachCategories(ctx, batch); err != nil {
			return nil, err
		}
		pool = append(pool, batch...)
		if len(batch) < batchSize {
			return pool, nil
		}
		lastID = batch[len(batch)-1].ID
	}
}

func (s *ArticleRepoImpl) attachCategories(ctx context.Context, batch []*ContentCandidate) error {
	ids := make([]uint64, 0, len(batch))
	byID := make(map[uint64]*ContentCandidate, len(batch))
	for _, c := range batch {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}
	links := make([]*model.ArticleCategory, 0)
	err := s.db.WithContext(ctx).
		Where("article_id IN ?", ids).
		Order("article_id asc").Order("category_id asc").
		Find(&links).Error
	if err != nil {
		return err
	}
	for _, l := range links {
		if c, ok := byID[l.ArticleID]; ok {
			c.Categories = append(c.Categories, l.CategoryID)
		}
	}
	return nil
}

func applyContentFilter(db *gorm.DB, filter ContentFilter) *gorm.DB {
	db = db.Where("articles.is_deleted = ?", false)
	if len(filter.ExcludeAuthorIDs) > 0 {
		db = db.Where("articles.author_id NOT IN ?", filter.ExcludeAuthorIDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		db = db.Where("articles.id NOT IN ?", filter.ExcludeIDs)
	}
	if len(filter.IncludeIDs) > 0 {
		db = db.Where("articles.id IN ?", filter.IncludeIDs)
	}
	if filter.AuthorID != 0 {
		db = db.Where("articles.author_id = ?", filter.AuthorID)
	}
	if len(filter.CategoryIn) > 0 {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.ArticleCategory{}).
			Select("article_id").
			Where("category_id IN ?", filter.CategoryIn)
		db = db.Where("articles.id IN (?)", sub)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("(articles.title LIKE ? OR articles.subtitle LIKE ?)", like, like)
	}
	return db
}
