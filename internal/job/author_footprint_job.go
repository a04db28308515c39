package job

import (
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/engagement"
	"Parchment/internal/pkg/logger"
	"Parchment/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// DirtyQueue 待重算作者集合
type DirtyQueue interface {
	Take(ctx context.Context) ([]uint64, error)
	Done(ctx context.Context) error
}

// AuthorFootprintJob 重算被标记为脏的作者足迹
type AuthorFootprintJob struct {
	authorRepo repository.AuthorRepo
	dirty      DirtyQueue
}

func NewAuthorFootprintJob(authorRepo repository.AuthorRepo, dirty DirtyQueue) *AuthorFootprintJob {
	return &AuthorFootprintJob{
		authorRepo: authorRepo,
		dirty:      dirty,
	}
}

func (s *AuthorFootprintJob) Run() {
	ctx := jobContext("job-footprint-")

	authorIDs, err := s.dirty.Take(ctx)
	if err != nil {
		log.ErrorContext(ctx, "take footprint dirty set error", "err", err)
		return
	}
	if len(authorIDs) == 0 {
		return
	}

	log.InfoContext(ctx, "AuthorFootprintJob processing", "author_count", len(authorIDs))

	failed := 0
	for _, authorID := range authorIDs {
		if err = refreshFootprint(ctx, s.authorRepo, authorID); err != nil {
			log.ErrorContext(ctx, "refresh author footprint error", "author_id", authorID, "err", err)
			failed++
		}
	}
	// 有失败时保留 processing 集合，下一轮重试
	if failed > 0 {
		log.WarnContext(ctx, "AuthorFootprintJob unfinished", "failed_count", failed)
		return
	}

	if err = s.dirty.Done(ctx); err != nil {
		log.ErrorContext(ctx, "delete footprint processing set error", "err", err)
	}
	log.InfoContext(ctx, "AuthorFootprintJob finished", "processed_count", len(authorIDs))
}

// AuthorFootprintRebuildJob 全量重算，多实例下只有拿到锁的实例执行
type AuthorFootprintRebuildJob struct {
	authorRepo repository.AuthorRepo
	locker     engagement.Locker
	timeout    time.Duration
}

func NewAuthorFootprintRebuildJob(authorRepo repository.AuthorRepo, locker engagement.Locker) *AuthorFootprintRebuildJob {
	return &AuthorFootprintRebuildJob{
		authorRepo: authorRepo,
		locker:     locker,
		timeout:    30 * time.Minute,
	}
}

func (s *AuthorFootprintRebuildJob) Run() {
	ctx, cancel := context.WithTimeout(jobContext("job-footprint-rebuild-"), s.timeout)
	defer cancel()

	unlock, err := s.locker.Lock(ctx, consts.FootprintRebuildLock)
	if err != nil {
		log.InfoContext(ctx, "footprint rebuild skipped, lock held elsewhere", "err", err)
		return
	}
	defer unlock()

	authorIDs, err := s.authorRepo.ListAuthorIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list authors error", "err", err)
		return
	}

	log.InfoContext(ctx, "AuthorFootprintRebuildJob processing", "author_count", len(authorIDs))
	for _, authorID := range authorIDs {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "footprint rebuild interrupted", "err", ctx.Err())
			return
		}
		if err = refreshFootprint(ctx, s.authorRepo, authorID); err != nil {
			log.ErrorContext(ctx, "refresh author footprint error", "author_id", authorID, "err", err)
		}
	}
	log.InfoContext(ctx, "AuthorFootprintRebuildJob finished", "processed_count", len(authorIDs))
}

// refreshFootprint 作者已没有文章时删除足迹
func refreshFootprint(ctx context.Context, authorRepo repository.AuthorRepo, authorID uint64) error {
	footprint, err := authorRepo.ComputeFootprint(ctx, authorID)
	if err != nil {
		return err
	}
	if footprint.ArticleCount == 0 {
		return authorRepo.DeleteFootprint(ctx, authorID)
	}
	return authorRepo.SaveFootprint(ctx, footprint)
}

func jobContext(prefix string) context.Context {
	return context.WithValue(context.Background(), logger.TraceIDKey, prefix+uuid.NewString())
}
