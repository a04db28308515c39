package service

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/mongo"
	"Parchment/internal/pkg/ranking"
	"Parchment/internal/repository"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type UserTraceService interface {
	GetProfile(ctx context.Context, actorID uint64) (*dto.ProfileDTO, error)
	UpdateInterests(ctx context.Context, actorID uint64, req *dto.UpdateInterestsDTO) error
	SetConfigured(ctx context.Context, actorID uint64, configured bool) error
	ToggleSavedList(ctx context.Context, actorID, listID uint64, action string) (bool, error)
	GetHistory(ctx context.Context, actorID uint64, page, limit int) (*dto.PageDTO[*dto.HistoryItemDTO], error)
	ClearHistory(ctx context.Context, actorID uint64) error
}

type UserTraceServiceImpl struct {
	traceRepo    mongo.UserTraceRepo
	userRepo     repository.UserRepo
	categoryRepo repository.CategoryRepo
	listRepo     repository.UserListRepo
	articleRepo  repository.ArticleRepo
	affinitySvc  AffinityService
	cfg          config.RankingConfig
}

func NewUserTraceService(
	traceRepo mongo.UserTraceRepo,
	userRepo repository.UserRepo,
	categoryRepo repository.CategoryRepo,
	listRepo repository.UserListRepo,
	articleRepo repository.ArticleRepo,
	affinitySvc AffinityService,
	cfg config.RankingConfig,
) UserTraceService {
	return &UserTraceServiceImpl{
		traceRepo:    traceRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		listRepo:     listRepo,
		articleRepo:  articleRepo,
		affinitySvc:  affinitySvc,
		cfg:          cfg,
	}
}

// GetProfile 画像文档不存在时返回空画像
func (s *UserTraceServiceImpl) GetProfile(ctx context.Context, actorID uint64) (*dto.ProfileDTO, error) {
	if actorID == 0 {
		return nil, UnauthorizedError
	}
	user, err := s.userRepo.GetUserById(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	trace, err := s.loadTrace(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var (
		interests []*model.Category
		viewed    []*model.Category
		lists     []*model.UserList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		interests, err = s.categoryRepo.GetByIds(gctx, trace.Interests)
		return
	})
	g.Go(func() (err error) {
		viewed, err = s.categoryRepo.GetByIds(gctx, trace.ViewedCategories)
		return
	})
	g.Go(func() (err error) {
		lists, err = s.listRepo.GetListsByIds(gctx, trace.SavedLists)
		return
	})
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: resolve profile: %v", ErrStoreUnavailable, err)
	}

	profile := &dto.ProfileDTO{
		UserID:           actorID,
		Interests:        toCategoryDTOs(interests),
		ViewedCategories: toCategoryDTOs(viewed),
		SavedLists:       make([]*dto.UserListDTO, 0, len(lists)),
		Configured:       trace.Configured,
	}
	for _, l := range lists {
		// 他人已改为私密的列表不再展示
		if l.Privacy == model.ListPrivacyPrivate && l.AuthorID != actorID {
			continue
		}
		profile.SavedLists = append(profile.SavedLists, &dto.UserListDTO{
			ID:       l.ID,
			AuthorID: l.AuthorID,
			Title:    l.Title,
			Privacy:  l.Privacy,
		})
	}
	return profile, nil
}

func (s *UserTraceServiceImpl) UpdateInterests(ctx context.Context, actorID uint64, req *dto.UpdateInterestsDTO) error {
	if actorID == 0 {
		return UnauthorizedError
	}
	ids := affinity.Dedupe(req.CategoryIDs)
	if len(ids) == 0 {
		return ErrParamInvalid
	}

	var m affinity.Mutation
	switch req.Action {
	case dto.ActionAdd:
		categories, err := s.categoryRepo.GetByIds(ctx, ids)
		if err != nil {
			return fmt.Errorf("%w: load categories: %v", ErrStoreUnavailable, err)
		}
		if len(categories) != len(ids) {
			return ErrCategoryInvalid
		}
		m = affinity.FollowInterests(ids...)
	case dto.ActionRemove:
		m = affinity.DropInterests(ids...)
	default:
		return ErrParamInvalid
	}
	return s.mutate(ctx, actorID, m)
}

func (s *UserTraceServiceImpl) SetConfigured(ctx context.Context, actorID uint64, configured bool) error {
	if actorID == 0 {
		return UnauthorizedError
	}
	return s.mutate(ctx, actorID, affinity.MarkConfigured(configured))
}

// ToggleSavedList 返回操作后该列表是否处于收藏状态；action 为空时取反
func (s *UserTraceServiceImpl) ToggleSavedList(ctx context.Context, actorID, listID uint64, action string) (bool, error) {
	if actorID == 0 {
		return false, UnauthorizedError
	}
	if listID == 0 {
		return false, ErrParamInvalid
	}

	list, err := s.listRepo.GetList(ctx, listID)
	if err != nil {
		return false, fmt.Errorf("%w: load list: %v", ErrStoreUnavailable, err)
	}
	if list == nil {
		return false, ErrListNotFound
	}
	if list.Privacy == model.ListPrivacyPrivate && list.AuthorID != actorID {
		return false, ErrListForbidden
	}

	if action == "" {
		trace, err := s.loadTrace(ctx, actorID)
		if err != nil {
			return false, err
		}
		action = dto.ActionAdd
		if affinity.NewSet(trace.SavedLists...).Contains(listID) {
			action = dto.ActionRemove
		}
	}

	switch action {
	case dto.ActionAdd:
		return true, s.mutate(ctx, actorID, affinity.SaveList(listID))
	case dto.ActionRemove:
		return false, s.mutate(ctx, actorID, affinity.UnsaveList(listID))
	default:
		return false, ErrParamInvalid
	}
}

// GetHistory 最近阅读的在前，已删除的文章跳过
func (s *UserTraceServiceImpl) GetHistory(ctx context.Context, actorID uint64, page, limit int) (*dto.PageDTO[*dto.HistoryItemDTO], error) {
	if actorID == 0 {
		return nil, UnauthorizedError
	}
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit, s.cfg)

	trace, err := s.loadTrace(ctx, actorID)
	if err != nil {
		return nil, err
	}
	history := affinity.SortedHistory(trace.History)

	articles, err := s.articleRepo.GetArticlesByIds(ctx, trace.HistoryArticleIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: load history articles: %v", ErrStoreUnavailable, err)
	}
	byID := make(map[uint64]*model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	visible := make([]*dto.HistoryItemDTO, 0, len(history))
	for _, h := range history {
		a, ok := byID[h.ArticleID]
		if !ok {
			continue
		}
		visible = append(visible, &dto.HistoryItemDTO{Article: toArticleDTO(a), ReadAt: h.ReadAt})
	}

	offset := ranking.Offset(page, limit)
	data := []*dto.HistoryItemDTO{}
	if offset < len(visible) {
		end := min(offset+limit, len(visible))
		data = visible[offset:end]
	}
	return &dto.PageDTO[*dto.HistoryItemDTO]{
		CurrentPage: page,
		HasMore:     ranking.HasMore(page, len(visible), limit),
		Data:        data,
	}, nil
}

func (s *UserTraceServiceImpl) ClearHistory(ctx context.Context, actorID uint64) error {
	if actorID == 0 {
		return UnauthorizedError
	}
	return s.mutate(ctx, actorID, affinity.ClearHistory())
}

func (s *UserTraceServiceImpl) loadTrace(ctx context.Context, actorID uint64) (*affinity.Trace, error) {
	trace, err := s.traceRepo.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: load trace: %v", ErrStoreUnavailable, err)
	}
	if trace == nil {
		trace = &affinity.Trace{UserID: actorID}
	}
	return trace, nil
}

func (s *UserTraceServiceImpl) mutate(ctx context.Context, actorID uint64, m affinity.Mutation) error {
	if _, err := s.traceRepo.UpdateProfile(ctx, actorID, m); err != nil {
		return fmt.Errorf("%w: update profile %s: %v", ErrStoreUnavailable, m.Kind, err)
	}
	s.affinitySvc.Invalidate(ctx, actorID)
	return nil
}
