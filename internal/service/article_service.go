package service

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/es"
	"Parchment/internal/pkg/ranking"
	"Parchment/internal/pkg/util"
	"Parchment/internal/repository"
	"context"
	"fmt"
	log "log/slog"
)

type ArticleService interface {
	GetTopArticle(ctx context.Context, actorID uint64) (*dto.ArticleDTO, error)
	ListArticles(ctx context.Context, actorID uint64, query *dto.ArticleListQuery) (*dto.PageDTO[*dto.ArticleDTO], error)
	GetRelatedArticles(ctx context.Context, slug string) ([]*dto.ArticleDTO, error)
}

type ArticleServiceImpl struct {
	articleRepo repository.ArticleRepo
	searchRepo  es.ArticleRepo
	affinitySvc AffinityService
	cfg         config.RankingConfig
}

// NewArticleService searchRepo 为 nil 时文本搜索退化为 LIKE
func NewArticleService(articleRepo repository.ArticleRepo, searchRepo es.ArticleRepo, affinitySvc AffinityService, cfg config.RankingConfig) ArticleService {
	return &ArticleServiceImpl{
		articleRepo: articleRepo,
		searchRepo:  searchRepo,
		affinitySvc: affinitySvc,
		cfg:         cfg,
	}
}

// GetTopArticle 与画像最匹配、浏览最多的一篇他人文章；没有匹配时取浏览最多的一篇
func (s *ArticleServiceImpl) GetTopArticle(ctx context.Context, actorID uint64) (*dto.ArticleDTO, error) {
	set := candidatesOrEmpty(ctx, s.affinitySvc, actorID)
	exclude := ownArticles(actorID)

	primary := func(ctx context.Context) ([]ranking.Candidate, error) {
		if set.Len() == 0 {
			return nil, nil
		}
		return s.scanPool(ctx, repository.ContentFilter{ExcludeAuthorIDs: exclude, CategoryIn: set.IDs()})
	}
	relaxed := func(ctx context.Context) ([]ranking.Candidate, error) {
		filter := repository.ContentFilter{ExcludeAuthorIDs: exclude}
		return s.queryPool(ctx, filter, repository.SortByViews, 1)
	}

	result, err := ranking.Select(ctx, ranking.Request{
		Set:          set,
		Policy:       ranking.Policy{Mode: ranking.Overlap, Secondary: ranking.ByPopularity},
		Limit:        1,
		RequireMatch: true,
	}, primary, relaxed)
	if err != nil {
		return nil, err
	}

	items, err := s.resolve(ctx, result.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrArticleNotFound
	}
	return items[0], nil
}

// ListArticles userbased=1 且已登录时按画像打分，否则按过滤条件直接分页
func (s *ArticleServiceImpl) ListArticles(ctx context.Context, actorID uint64, query *dto.ArticleListQuery) (*dto.PageDTO[*dto.ArticleDTO], error) {
	page, limit := s.pageOf(query.Page, query.Limit)
	empty := &dto.PageDTO[*dto.ArticleDTO]{CurrentPage: page, Data: []*dto.ArticleDTO{}}

	filter := repository.ContentFilter{AuthorID: query.Author}
	categories, err := util.ParseIDList(query.Category)
	if err != nil {
		return nil, ErrParamInvalid
	}
	filter.CategoryIn = categories

	if query.Search != "" {
		ids, matched := s.search(ctx, query.Search)
		if !matched {
			filter.Search = query.Search
		} else if len(ids) == 0 {
			return empty, nil
		} else {
			filter.IncludeIDs = ids
		}
	}

	sort, secondary := repository.SortByRecency, ranking.ByRecency
	if query.Sort == "views" {
		sort, secondary = repository.SortByViews, ranking.ByPopularity
	}
	offset := ranking.Offset(page, limit)

	if query.UserBased == consts.UserBasedMatched && actorID != 0 {
		filter.ExcludeAuthorIDs = ownArticles(actorID)
		set := candidatesOrEmpty(ctx, s.affinitySvc, actorID)
		pool, err := s.scanPool(ctx, filter)
		if err != nil {
			return nil, err
		}
		scored := ranking.Rank(pool, set, ranking.Policy{Mode: ranking.Overlap, Secondary: secondary})
		items, err := s.resolve(ctx, ranking.Paginate(scored, offset, limit))
		if err != nil {
			return nil, err
		}
		return &dto.PageDTO[*dto.ArticleDTO]{
			CurrentPage: page,
			HasMore:     ranking.HasMore(page, len(scored), limit),
			Data:        items,
		}, nil
	}

	total, err := s.articleRepo.CountContentPool(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: count articles: %v", ErrStoreUnavailable, err)
	}
	if int64(offset) >= total {
		return empty, nil
	}
	articles, err := s.articleRepo.QueryContentPool(ctx, filter, sort, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: query articles: %v", ErrStoreUnavailable, err)
	}
	items := make([]*dto.ArticleDTO, 0, len(articles))
	for _, a := range articles {
		items = append(items, toArticleDTO(a))
	}
	return &dto.PageDTO[*dto.ArticleDTO]{
		CurrentPage: page,
		HasMore:     ranking.HasMore(page, int(total), limit),
		Data:        items,
	}, nil
}

// GetRelatedArticles 与目标文章分类重合最多的文章，不足时按浏览量补齐
func (s *ArticleServiceImpl) GetRelatedArticles(ctx context.Context, slug string) ([]*dto.ArticleDTO, error) {
	if slug == "" {
		return nil, ErrParamInvalid
	}
	target, err := s.articleRepo.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: load article: %v", ErrStoreUnavailable, err)
	}
	if target == nil {
		return nil, ErrArticleNotFound
	}

	size := s.cfg.RelatedTarget
	set := affinity.NewSet(target.CategoryIDs()...)

	primary := func(ctx context.Context) ([]ranking.Candidate, error) {
		if set.Len() == 0 {
			return nil, nil
		}
		return s.scanPool(ctx, repository.ContentFilter{CategoryIn: set.IDs(), ExcludeIDs: []uint64{target.ID}})
	}
	result, err := ranking.Select(ctx, ranking.Request{
		Set:          set,
		Policy:       ranking.Policy{Mode: ranking.Overlap, Secondary: ranking.ByPopularity},
		Limit:        size,
		RequireMatch: true,
	}, primary, nil)
	if err != nil {
		return nil, err
	}

	selected := ranking.IDs(result.Items)
	backfill := func(ctx context.Context) ([]ranking.Candidate, error) {
		filter := repository.ContentFilter{ExcludeIDs: append([]uint64{target.ID}, selected...)}
		return s.queryPool(ctx, filter, repository.SortByViews, size)
	}
	items, err := ranking.Backfill(ctx, result.Items, size, []uint64{target.ID}, ranking.ByPopularity, backfill)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, items)
}

// scanPool 打分前读出全部满足条件的候选
func (s *ArticleServiceImpl) scanPool(ctx context.Context, filter repository.ContentFilter) ([]ranking.Candidate, error) {
	rows, err := s.articleRepo.ScanContentPool(ctx, filter, s.cfg.PoolBatchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: scan content pool: %v", ErrStoreUnavailable, err)
	}
	pool := make([]ranking.Candidate, 0, len(rows))
	for _, r := range rows {
		pool = append(pool, ranking.Candidate{
			ID:         r.ID,
			Categories: r.Categories,
			Popularity: r.Views,
			CreatedAt:  r.CreatedAt,
		})
	}
	return pool, nil
}

// queryPool 只按 SQL 排序取前 limit 条，用于不打分的兜底与补齐
func (s *ArticleServiceImpl) queryPool(ctx context.Context, filter repository.ContentFilter, sort repository.ArticleSort, limit int) ([]ranking.Candidate, error) {
	articles, err := s.articleRepo.QueryContentPool(ctx, filter, sort, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: query content pool: %v", ErrStoreUnavailable, err)
	}
	pool := make([]ranking.Candidate, 0, len(articles))
	for _, a := range articles {
		pool = append(pool, toArticleCandidate(a))
	}
	return pool, nil
}

// resolve 按排序结果的顺序加载文章，期间被删除的文章跳过
func (s *ArticleServiceImpl) resolve(ctx context.Context, scored []ranking.Scored) ([]*dto.ArticleDTO, error) {
	if len(scored) == 0 {
		return []*dto.ArticleDTO{}, nil
	}
	articles, err := s.articleRepo.GetArticlesByIds(ctx, ranking.IDs(scored))
	if err != nil {
		return nil, fmt.Errorf("%w: load articles: %v", ErrStoreUnavailable, err)
	}
	byID := make(map[uint64]*model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	items := make([]*dto.ArticleDTO, 0, len(scored))
	for _, sc := range scored {
		if a, ok := byID[sc.ID]; ok {
			items = append(items, toArticleDTO(a))
		}
	}
	return items, nil
}

// search 返回命中的文章 ID；搜索服务不可用时 matched 为 false，由调用方退化为 LIKE
func (s *ArticleServiceImpl) search(ctx context.Context, keyword string) ([]uint64, bool) {
	if s.searchRepo == nil {
		return nil, false
	}
	ids, err := s.searchRepo.SearchArticleIDs(ctx, keyword, es.MaxSearchDepth)
	if err != nil {
		log.WarnContext(ctx, "article search unavailable, fallback to sql", "err", err)
		return nil, false
	}
	return ids, true
}

func (s *ArticleServiceImpl) pageOf(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, clampLimit(limit, s.cfg)
}

func clampLimit(limit int, cfg config.RankingConfig) int {
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 && limit > cfg.MaxPageSize {
		limit = cfg.MaxPageSize
	}
	if limit <= 0 {
		limit = 10
	}
	return limit
}

// ownArticles 登录用户不推荐自己的文章
func ownArticles(actorID uint64) []uint64 {
	if actorID == 0 {
		return nil
	}
	return []uint64{actorID}
}
