package service

import (
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/mongo"
	"Parchment/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

// CandidateCache 候选分类集合的缓存；Get 返回的 version 在 Invalidate 后变化，
// Set 只在 version 未变时写入
type CandidateCache interface {
	Get(ctx context.Context, userID uint64) ([]uint64, bool, int64, error)
	Set(ctx context.Context, userID uint64, ids []uint64, version int64, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, userID uint64) error
}

// AffinityService 由用户行为与声明的兴趣构建画像，本身不修改画像
type AffinityService interface {
	BuildProfile(ctx context.Context, actorID uint64) (*affinity.Profile, error)
	CandidateSet(ctx context.Context, actorID uint64) (*affinity.Set, error)
	Invalidate(ctx context.Context, actorID uint64)
}

type AffinityServiceImpl struct {
	traceRepo   mongo.UserTraceRepo
	articleRepo repository.ArticleRepo
	cache       CandidateCache
	cacheTTL    time.Duration
}

func NewAffinityService(traceRepo mongo.UserTraceRepo, articleRepo repository.ArticleRepo, cache CandidateCache, cacheTTL time.Duration) AffinityService {
	return &AffinityServiceImpl{
		traceRepo:   traceRepo,
		articleRepo: articleRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// BuildProfile 匿名用户或没有画像文档时返回空画像
func (s *AffinityServiceImpl) BuildProfile(ctx context.Context, actorID uint64) (*affinity.Profile, error) {
	if actorID == 0 {
		return affinity.Anonymous(), nil
	}

	trace, err := s.traceRepo.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: load trace: %v", ErrStoreUnavailable, err)
	}
	if trace == nil {
		p := affinity.Anonymous()
		p.ActorID = actorID
		return p, nil
	}

	historyCategories, err := s.historyCategories(ctx, trace)
	if err != nil {
		return nil, err
	}
	return affinity.Build(actorID, trace.Interests, trace.ViewedCategories, historyCategories), nil
}

// historyCategories 阅读历史中文章的分类，已删除的文章跳过
func (s *AffinityServiceImpl) historyCategories(ctx context.Context, trace *affinity.Trace) ([]uint64, error) {
	ids := trace.HistoryArticleIDs()
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	articles, err := s.articleRepo.GetArticlesByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load history articles: %v", ErrStoreUnavailable, err)
	}
	var categories []uint64
	for _, a := range articles {
		categories = append(categories, a.CategoryIDs()...)
	}
	return affinity.Dedupe(categories), nil
}

// CandidateSet 优先读缓存，缓存异常时直接读存储
func (s *AffinityServiceImpl) CandidateSet(ctx context.Context, actorID uint64) (*affinity.Set, error) {
	if actorID == 0 {
		return affinity.NewSet(), nil
	}

	cacheable := false
	var version int64
	if s.cache != nil {
		ids, ok, v, err := s.cache.Get(ctx, actorID)
		if err != nil {
			log.WarnContext(ctx, "affinity cache read failed", "err", err)
		} else if ok {
			return affinity.NewSet(ids...), nil
		} else {
			cacheable, version = true, v
		}
	}

	profile, err := s.BuildProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	set := profile.Candidates()

	if cacheable {
		stored, err := s.cache.Set(ctx, actorID, set.IDs(), version, s.cacheTTL)
		if err != nil {
			log.WarnContext(ctx, "affinity cache write failed", "err", err)
		} else if !stored {
			log.DebugContext(ctx, "affinity changed while building, skip cache write", "user_id", actorID)
		}
	}
	return set, nil
}

func (s *AffinityServiceImpl) Invalidate(ctx context.Context, actorID uint64) {
	if s.cache == nil || actorID == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, actorID); err != nil {
		log.WarnContext(ctx, "affinity cache invalidate failed", "user_id", actorID, "err", err)
	}
}

// candidatesOrEmpty 画像不可用时退化为空集合，排序走兜底逻辑
func candidatesOrEmpty(ctx context.Context, svc AffinityService, actorID uint64) *affinity.Set {
	set, err := svc.CandidateSet(ctx, actorID)
	if err != nil {
		log.WarnContext(ctx, "affinity profile unavailable, degrade to fallback ordering", "user_id", actorID, "err", err)
		return affinity.NewSet()
	}
	return set
}
