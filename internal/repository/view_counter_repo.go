package repository

import (
	"Parchment/internal/model"
	"Parchment/internal/pkg/engagement"
	"context"
	stderrors "errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	mysqlDuplicateEntry = 1062
	counterMaxRetries   = 3
)

var ErrCounterConflict = stderrors.New("view counter version conflict")

type ViewCounterRepo interface {
	// IncrementViewCounter 以 session 记录一次浏览，返回累计浏览数与本次是否被计数
	IncrementViewCounter(ctx context.Context, articleID uint64, session string, now time.Time, policy engagement.ViewPolicy) (int64, bool, error)
	GetViewCounter(ctx context.Context, articleID uint64) (*model.ArticleViewCounter, error)
}

type ViewCounterRepoImpl struct {
	db *gorm.DB
}

func NewViewCounterRepo(db *gorm.DB) ViewCounterRepo {
	return &ViewCounterRepoImpl{db: db}
}

func (s *ViewCounterRepoImpl) GetViewCounter(ctx context.Context, articleID uint64) (*model.ArticleViewCounter, error) {
	counter := &model.ArticleViewCounter{}
	err := s.db.WithContext(ctx).First(counter, articleID).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return counter, nil
}

func (s *ViewCounterRepoImpl) IncrementViewCounter(ctx context.Context, articleID uint64, session string, now time.Time, policy engagement.ViewPolicy) (int64, bool, error) {
	var lastErr error
	for i := 0; i < counterMaxRetries; i++ {
		total, counted, err := s.increment(ctx, articleID, session, now, policy)
		if err == nil {
			return total, counted, nil
		}
		// 并发首次插入撞主键或版本号被抢先，重读后再试
		if !isDuplicateEntry(err) && !stderrors.Is(err, ErrCounterConflict) {
			return 0, false, err
		}
		lastErr = err
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
	}
	return 0, false, errors.Wrapf(lastErr, "increment view counter of article %d", articleID)
}

func (s *ViewCounterRepoImpl) increment(ctx context.Context, articleID uint64, session string, now time.Time, policy engagement.ViewPolicy) (int64, bool, error) {
	var total int64
	var counted bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &model.ArticleViewCounter{}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("article_id = ?", articleID).
			Take(row).Error
		exists := true
		if err != nil {
			if !stderrors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			exists = false
			row = &model.ArticleViewCounter{ArticleID: articleID}
			// 首次计数从文章表已有的浏览量起算
			var seeded []int64
			err = tx.Model(&model.Article{}).Where("id = ?", articleID).Pluck("views", &seeded).Error
			if err != nil {
				return err
			}
			if len(seeded) > 0 {
				row.TotalViews = seeded[0]
			}
		}

		counter := toViewCounter(row)
		counted = counter.Track(session, now, policy)
		total = counter.Total
		if !counted {
			return nil
		}

		row.TotalViews = counter.Total
		row.Sessions = counter.Sessions
		row.Buckets = counter.Buckets
		row.UpdatedAt = now

		if !exists {
			row.Version = 1
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&model.ArticleViewCounter{}).
				Where("article_id = ? AND version = ?", articleID, row.Version).
				Updates(map[string]interface{}{
					"total_views": row.TotalViews,
					"sessions":    row.Sessions,
					"buckets":     row.Buckets,
					"version":     row.Version + 1,
					"updated_at":  now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrCounterConflict
			}
		}

		// 冗余到文章表，供候选池按热度排序
		return tx.Model(&model.Article{}).
			Where("id = ?", articleID).
			UpdateColumn("views", row.TotalViews).Error
	})
	if err != nil {
		return 0, false, err
	}
	return total, counted, nil
}

func toViewCounter(row *model.ArticleViewCounter) *engagement.ViewCounter {
	c := engagement.NewViewCounter()
	c.Total = row.TotalViews
	for k, v := range row.Sessions {
		c.Sessions[k] = v
	}
	for k, v := range row.Buckets {
		c.Buckets[k] = v
	}
	return c
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
