package service

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/ranking"
	"Parchment/internal/repository"
	"context"
	"fmt"
)

type CategoryService interface {
	GetCategories(ctx context.Context, actorID uint64, userBased, limit int) ([]*dto.CategoryDTO, error)
}

type CategoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
	affinitySvc  AffinityService
}

func NewCategoryService(categoryRepo repository.CategoryRepo, affinitySvc AffinityService) CategoryService {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		affinitySvc:  affinitySvc,
	}
}

// GetCategories userBased=1 命中画像的分类在前，-1 未命中的在前，0 按 ID 顺序
func (s *CategoryServiceImpl) GetCategories(ctx context.Context, actorID uint64, userBased, limit int) ([]*dto.CategoryDTO, error) {
	var mode ranking.Mode
	switch userBased {
	case consts.UserBasedNone:
	case consts.UserBasedMatched:
		mode = ranking.Containment
	case consts.UserBasedUnmatched:
		mode = ranking.ContainmentInverted
	default:
		return nil, ErrParamInvalid
	}
	if limit < 0 {
		return nil, ErrParamInvalid
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load categories: %v", ErrStoreUnavailable, err)
	}

	byID := make(map[uint64]*model.Category, len(categories))
	pool := make([]ranking.Candidate, 0, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
		pool = append(pool, ranking.Candidate{ID: c.ID, Categories: []uint64{c.ID}, CreatedAt: c.CreatedAt})
	}

	// userBased=0 时集合为空，所有分数为 0，结果即 ID 顺序
	set := affinity.NewSet()
	if userBased != consts.UserBasedNone {
		set = candidatesOrEmpty(ctx, s.affinitySvc, actorID)
	}
	scored := ranking.Rank(pool, set, ranking.Policy{Mode: mode, Secondary: ranking.ByIdentifier})
	if limit > 0 {
		scored = ranking.Paginate(scored, 0, limit)
	}

	items := make([]*dto.CategoryDTO, 0, len(scored))
	for _, sc := range scored {
		items = append(items, toCategoryDTO(byID[sc.ID]))
	}
	return items, nil
}
