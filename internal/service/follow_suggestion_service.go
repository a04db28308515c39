package service

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/ranking"
	"Parchment/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// FollowingCache 关注列表缓存，依赖 user_follows 的变更消费来失效；
// 回填语义同 CandidateCache
type FollowingCache interface {
	GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, bool, int64, error)
	SetFollowing(ctx context.Context, userID uint64, ids []uint64, followedAt []time.Time, version int64, ttl time.Duration) (bool, error)
}

type FollowSuggestionService interface {
	WhoToFollow(ctx context.Context, actorID uint64) ([]*dto.AuthorDTO, error)
	GetFollowingUsers(ctx context.Context, actorID uint64, page, limit int) (*dto.PageDTO[*dto.FollowingDTO], error)
}

type FollowSuggestionServiceImpl struct {
	authorRepo  repository.AuthorRepo
	userRepo    repository.UserRepo
	followRepo  repository.UserFollowRepo
	affinitySvc AffinityService
	cache       FollowingCache
	cfg         config.RankingConfig
}

func NewFollowSuggestionService(authorRepo repository.AuthorRepo, userRepo repository.UserRepo, followRepo repository.UserFollowRepo, affinitySvc AffinityService, cache FollowingCache, cfg config.RankingConfig) FollowSuggestionService {
	return &FollowSuggestionServiceImpl{
		authorRepo:  authorRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
		affinitySvc: affinitySvc,
		cache:       cache,
		cfg:         cfg,
	}
}

// WhoToFollow 按作者发表过的分类与画像的交集排序，没有任何交集时按注册先后推荐
func (s *FollowSuggestionServiceImpl) WhoToFollow(ctx context.Context, actorID uint64) ([]*dto.AuthorDTO, error) {
	if actorID == 0 {
		return nil, UnauthorizedError
	}

	var (
		set       *affinity.Set
		following []uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set = candidatesOrEmpty(gctx, s.affinitySvc, actorID)
		return nil
	})
	g.Go(func() error {
		var err error
		following, err = s.followingIDs(gctx, actorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pool []ranking.Candidate
	loaded := false
	fetch := func(ctx context.Context) ([]ranking.Candidate, error) {
		if loaded {
			return pool, nil
		}
		exclude := append([]uint64{actorID}, following...)
		candidates, err := s.authorRepo.ScanAuthorPool(ctx, exclude, s.cfg.PoolBatchSize)
		if err != nil {
			return nil, fmt.Errorf("%w: scan author pool: %v", ErrStoreUnavailable, err)
		}
		pool = make([]ranking.Candidate, 0, len(candidates))
		for _, c := range candidates {
			pool = append(pool, ranking.Candidate{
				ID:         c.AuthorID,
				Categories: c.Categories,
				CreatedAt:  c.CreatedAt,
			})
		}
		loaded = true
		return pool, nil
	}

	result, err := ranking.Select(ctx, ranking.Request{
		Set:          set,
		Policy:       ranking.Policy{Mode: ranking.Overlap, Secondary: ranking.ByCreation},
		Limit:        s.cfg.SuggestionLimit,
		RequireMatch: true,
	}, fetch, fetch)
	if err != nil {
		return nil, err
	}
	return s.resolveAuthors(ctx, ranking.IDs(result.Items))
}

// resolveAuthors 按给定顺序加载作者资料，期间被注销的作者跳过
func (s *FollowSuggestionServiceImpl) resolveAuthors(ctx context.Context, ids []uint64) ([]*dto.AuthorDTO, error) {
	if len(ids) == 0 {
		return []*dto.AuthorDTO{}, nil
	}
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load authors: %v", ErrStoreUnavailable, err)
	}
	byID := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	items := make([]*dto.AuthorDTO, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			items = append(items, toAuthorDTO(u))
		}
	}
	return items, nil
}

// followingIDs 先读缓存，未命中时回源并回填
func (s *FollowSuggestionServiceImpl) followingIDs(ctx context.Context, actorID uint64) ([]uint64, error) {
	cacheable := false
	var version int64
	if s.cache != nil {
		ids, ok, v, err := s.cache.GetFollowingIDs(ctx, actorID)
		if err != nil {
			log.WarnContext(ctx, "following cache read failed", "user_id", actorID, "err", err)
		} else if ok {
			return ids, nil
		} else {
			cacheable, version = true, v
		}
	}

	follows, err := s.followRepo.GetFollowingIDs(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: load following: %v", ErrStoreUnavailable, err)
	}
	ids := make([]uint64, 0, len(follows))
	followedAt := make([]time.Time, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
		followedAt = append(followedAt, f.CreatedAt)
	}

	if cacheable {
		if _, err = s.cache.SetFollowing(ctx, actorID, ids, followedAt, version, s.cfg.ProfileCacheTTL); err != nil {
			log.WarnContext(ctx, "following cache write failed", "user_id", actorID, "err", err)
		}
	}
	return ids, nil
}

// GetFollowingUsers 关注列表，最近关注的在前
func (s *FollowSuggestionServiceImpl) GetFollowingUsers(ctx context.Context, actorID uint64, page, limit int) (*dto.PageDTO[*dto.FollowingDTO], error) {
	if actorID == 0 {
		return nil, UnauthorizedError
	}
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit, s.cfg)

	total, err := s.followRepo.GetUserFollowingCount(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: count following: %v", ErrStoreUnavailable, err)
	}
	follows, err := s.followRepo.GetUserFollowing(ctx, actorID, limit, ranking.Offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: load following: %v", ErrStoreUnavailable, err)
	}

	items := make([]*dto.FollowingDTO, 0, len(follows))
	for _, f := range follows {
		if f.Following == nil {
			continue
		}
		items = append(items, &dto.FollowingDTO{Author: toAuthorDTO(f.Following), FollowedAt: f.CreatedAt})
	}
	return &dto.PageDTO[*dto.FollowingDTO]{
		CurrentPage: page,
		HasMore:     ranking.HasMore(page, int(total), limit),
		Data:        items,
	}, nil
}
