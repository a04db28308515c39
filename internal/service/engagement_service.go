package service

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/engagement"
	"Parchment/internal/pkg/mongo"
	pkgredis "Parchment/internal/pkg/redis"
	"Parchment/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"
)

// maxSessionLength 与 SessionMiddleware 的限制保持一致
const maxSessionLength = 128

type EngagementService interface {
	TrackView(ctx context.Context, actorID uint64, sessionID, slug string) (*dto.TrackResultDTO, error)
}

type EngagementServiceImpl struct {
	articleRepo repository.ArticleRepo
	counterRepo repository.ViewCounterRepo
	traceRepo   mongo.UserTraceRepo
	affinitySvc AffinityService
	locker      engagement.Locker
	policy      engagement.ViewPolicy
	historyCD   time.Duration
	now         func() time.Time
}

func NewEngagementService(
	articleRepo repository.ArticleRepo,
	counterRepo repository.ViewCounterRepo,
	traceRepo mongo.UserTraceRepo,
	affinitySvc AffinityService,
	locker engagement.Locker,
	cfg config.EngagementConfig,
) EngagementService {
	policy := engagement.DefaultViewPolicy()
	if cfg.ViewCooldown > 0 {
		policy.Cooldown = cfg.ViewCooldown
	}
	if cfg.ViewRetention > 0 {
		policy.Retention = cfg.ViewRetention
	}
	if cfg.BucketSize > 0 {
		policy.BucketSize = cfg.BucketSize
	}
	historyCD := cfg.HistoryCooldown
	if historyCD <= 0 {
		historyCD = engagement.DefaultHistoryCooldown
	}
	return &EngagementServiceImpl{
		articleRepo: articleRepo,
		counterRepo: counterRepo,
		traceRepo:   traceRepo,
		affinitySvc: affinitySvc,
		locker:      locker,
		policy:      policy,
		historyCD:   historyCD,
		now:         time.Now,
	}
}

// TrackView 记录一次浏览。计数先落库，之后再写画像；画像的两次写入互不回滚。
func (s *EngagementServiceImpl) TrackView(ctx context.Context, actorID uint64, sessionID, slug string) (*dto.TrackResultDTO, error) {
	if slug == "" || sessionID == "" || len(sessionID) > maxSessionLength {
		return nil, ErrParamInvalid
	}

	article, err := s.articleRepo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: load article: %v", ErrStoreUnavailable, err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	now := s.now().UTC()
	result := &dto.TrackResultDTO{ArticleID: article.ID}

	unlock, err := s.lock(ctx, consts.ArticleViewLock+strconv.FormatUint(article.ID, 10))
	if err != nil {
		return nil, err
	}
	total, counted, err := s.counterRepo.IncrementViewCounter(ctx, article.ID, sessionID, now, s.policy)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: increment view counter: %v", ErrStoreUnavailable, err)
	}
	result.TotalViews, result.Counted = total, counted

	if actorID == 0 {
		return result, nil
	}
	if ctx.Err() != nil {
		log.WarnContext(ctx, "request cancelled after view counted, skip profile update", "article_id", article.ID)
		return result, nil
	}

	appended, err := s.updateProfile(ctx, actorID, article.AuthorID, article.ID, article.CategoryIDs(), now)
	result.HistoryAppended = appended
	if err != nil {
		return nil, err
	}
	return result, nil
}

// updateProfile 浏览分类总是并入画像；阅读历史只记录他人的文章
func (s *EngagementServiceImpl) updateProfile(ctx context.Context, actorID, authorID, articleID uint64, categories []uint64, now time.Time) (bool, error) {
	unlock, err := s.lock(ctx, consts.UserTraceLock+strconv.FormatUint(actorID, 10))
	if err != nil {
		return false, err
	}
	defer unlock()
	defer s.affinitySvc.Invalidate(ctx, actorID)

	var errs []error
	if len(categories) > 0 {
		if _, err = s.traceRepo.UpdateProfile(ctx, actorID, affinity.ViewCategories(categories...)); err != nil {
			log.ErrorContext(ctx, "failed to record viewed categories", "user_id", actorID, "article_id", articleID, "err", err)
			errs = append(errs, err)
		}
	}

	var appended bool
	if actorID != authorID {
		appended, err = s.traceRepo.UpdateProfile(ctx, actorID, affinity.RecordRead(articleID, now, s.historyCD))
		if err != nil {
			log.ErrorContext(ctx, "failed to append reading history", "user_id", actorID, "article_id", articleID, "err", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return appended, fmt.Errorf("%w: update profile: %v", ErrStoreUnavailable, errors.Join(errs...))
	}
	return appended, nil
}

func (s *EngagementServiceImpl) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, key)
	if err == nil {
		return unlock, nil
	}
	if errors.Is(err, pkgredis.ErrLockNotAcquired) || errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrResourceBusy
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: acquire lock: %v", ErrStoreUnavailable, err)
}
