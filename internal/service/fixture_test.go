package service

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/affinity"
	"Parchment/internal/pkg/database/dbtest"
	"Parchment/internal/pkg/engagement"
	"Parchment/internal/pkg/es"
	pkgredis "Parchment/internal/pkg/redis"
	"Parchment/internal/repository"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

var rankingCfg = config.RankingConfig{
	PoolBatchSize:   500,
	RelatedTarget:   3,
	SuggestionLimit: 6,
	DefaultPageSize: 10,
	MaxPageSize:     50,
	ProfileCacheTTL: time.Hour,
}

var engagementCfg = config.EngagementConfig{
	ViewCooldown:    time.Minute,
	ViewRetention:   time.Hour,
	BucketSize:      time.Hour,
	HistoryCooldown: 24 * time.Hour,
}

// fakeTraceRepo 内存画像存储，修改语义与 Mongo 更新一致
type fakeTraceRepo struct {
	mu     sync.Mutex
	traces map[uint64]*affinity.Trace
	err    error
	// onGet 在读取画像之后调用，用于模拟回源期间的并发写
	onGet func(userID uint64)
}

func newFakeTraceRepo() *fakeTraceRepo {
	return &fakeTraceRepo{traces: make(map[uint64]*affinity.Trace)}
}

func (r *fakeTraceRepo) GetByUserID(_ context.Context, userID uint64) (*affinity.Trace, error) {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}
	trace := r.traces[userID].Clone()
	hook := r.onGet
	r.mu.Unlock()
	if hook != nil {
		hook(userID)
	}
	return trace, nil
}

func (r *fakeTraceRepo) CreateProfile(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.traces[userID]; !ok {
		r.traces[userID] = &affinity.Trace{UserID: userID}
	}
	return nil
}

func (r *fakeTraceRepo) UpdateProfile(_ context.Context, userID uint64, m affinity.Mutation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	t, ok := r.traces[userID]
	if !ok {
		t = &affinity.Trace{UserID: userID}
		r.traces[userID] = t
	}
	return t.Apply(m)
}

func (r *fakeTraceRepo) DeleteProfile(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.traces, userID)
	return nil
}

func (r *fakeTraceRepo) get(userID uint64) *affinity.Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.traces[userID].Clone()
}

// fakeSearch 固定返回 ids 或 err
type fakeSearch struct {
	ids []uint64
	err error
}

func (f *fakeSearch) SearchArticleIDs(context.Context, string, int) ([]uint64, error) {
	return f.ids, f.err
}

func (f *fakeSearch) IndexArticle(context.Context, *es.ArticleES, int64) error { return nil }

func (f *fakeSearch) DeleteArticle(context.Context, uint64) error { return nil }

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(), error) {
	return nil, pkgredis.ErrLockNotAcquired
}

var errStoreDown = errors.New("connection refused")

type world struct {
	db        *gorm.DB
	rdb       *redis.Client
	mr        *miniredis.Miniredis
	traces    *fakeTraceRepo
	search    *fakeSearch
	articles  repository.ArticleRepo
	counters  repository.ViewCounterRepo
	affinity  AffinityService
	articleS  ArticleService
	categoryS CategoryService
	engageS   *EngagementServiceImpl
	followS   FollowSuggestionService
	traceS    UserTraceService
	clock     time.Time

	affinityCache  *pkgredis.AffinityCache
	followingCache *pkgredis.FollowingCache
}

func newTestDB(t *testing.T) *gorm.DB {
	return dbtest.New(t)
}

// newWorld 四个用户、四个分类、六篇文章（a6 已删除）；用户 4 是只读不写的读者，关注了用户 3
func newWorld(t *testing.T) *world {
	t.Helper()
	db := newTestDB(t)

	users := []*model.User{
		{ID: 1, Username: "ada", CreatedAt: t0.Add(-48 * time.Hour)},
		{ID: 2, Username: "bob", CreatedAt: t0.Add(-24 * time.Hour)},
		{ID: 3, Username: "cy", CreatedAt: t0.Add(-12 * time.Hour)},
		{ID: 4, Username: "dee", CreatedAt: t0.Add(-6 * time.Hour)},
	}
	require.NoError(t, db.Create(users).Error)

	cats := []model.Category{
		{ID: 1, Title: "go", CreatedAt: t0},
		{ID: 2, Title: "rust", CreatedAt: t0},
		{ID: 3, Title: "db", CreatedAt: t0},
		{ID: 4, Title: "ml", CreatedAt: t0},
	}
	require.NoError(t, db.Create(&cats).Error)

	articles := []*model.Article{
		{ID: 1, AuthorID: 1, Slug: "a1", Title: "Go tips", Views: 10, CreatedAt: t0, Categories: []model.Category{cats[0]}},
		{ID: 2, AuthorID: 2, Slug: "a2", Title: "Rust", Views: 5, CreatedAt: t0.Add(time.Hour), Categories: []model.Category{cats[0], cats[1]}},
		{ID: 3, AuthorID: 2, Slug: "a3", Title: "Going far", Views: 20, CreatedAt: t0.Add(2 * time.Hour), Categories: []model.Category{cats[2]}},
		{ID: 4, AuthorID: 3, Slug: "a4", Title: "Cats", Views: 1, CreatedAt: t0.Add(3 * time.Hour), Categories: []model.Category{cats[1]}},
		{ID: 5, AuthorID: 1, Slug: "a5", Title: "Gophers", Views: 7, CreatedAt: t0.Add(4 * time.Hour), Categories: []model.Category{cats[3]}},
		{ID: 6, AuthorID: 1, Slug: "a6", Title: "Gone", Views: 99, IsDeleted: true, CreatedAt: t0, Categories: []model.Category{cats[2]}},
	}
	require.NoError(t, db.Create(articles).Error)

	footprints := []*model.AuthorFootprint{
		{AuthorID: 1, Categories: model.IDList{1, 4}, ArticleCount: 2},
		{AuthorID: 2, Categories: model.IDList{1, 2, 3}, ArticleCount: 2},
		{AuthorID: 3, Categories: model.IDList{2}, ArticleCount: 1},
	}
	require.NoError(t, db.Omit("Author").Create(footprints).Error)

	require.NoError(t, db.Create(&model.UserFollow{FollowerID: 4, FollowingID: 3, CreatedAt: t0}).Error)
	lists := []*model.UserList{
		{ID: 1, AuthorID: 1, Title: "public", Privacy: model.ListPrivacyPublic},
		{ID: 2, AuthorID: 1, Title: "secret", Privacy: model.ListPrivacyPrivate},
	}
	require.NoError(t, db.Create(lists).Error)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	w := &world{db: db, rdb: rdb, mr: mr, traces: newFakeTraceRepo(), search: &fakeSearch{}, clock: t0.Add(24 * time.Hour)}
	w.articles = repository.NewArticleRepo(db)
	w.counters = repository.NewViewCounterRepo(db)
	w.affinityCache = pkgredis.NewAffinityCache(rdb)
	w.followingCache = pkgredis.NewFollowingCache(rdb)
	w.wire(rankingCfg, w.followingCache)
	return w
}

// wire 按给定配置重建服务；followingCache 为 nil 对应未开启变更消费的部署
func (w *world) wire(cfg config.RankingConfig, followingCache FollowingCache) {
	categories := repository.NewCategoryRepo(w.db)
	w.affinity = NewAffinityService(w.traces, w.articles, w.affinityCache, time.Hour)
	w.articleS = NewArticleService(w.articles, w.search, w.affinity, cfg)
	w.categoryS = NewCategoryService(categories, w.affinity)
	w.engageS = NewEngagementService(w.articles, w.counters, w.traces, w.affinity, engagement.NewKeyedMutex(), engagementCfg).(*EngagementServiceImpl)
	w.engageS.now = func() time.Time { return w.clock }
	w.followS = NewFollowSuggestionService(repository.NewAuthorRepo(w.db), repository.NewUserRepo(w.db), repository.NewUserFollowRepo(w.db), w.affinity, followingCache, cfg)
	w.traceS = NewUserTraceService(w.traces, repository.NewUserRepo(w.db), categories, repository.NewUserListRepo(w.db), w.articles, w.affinity, cfg)
}

// view 以 session 身份在当前时钟上报一次浏览
func (w *world) view(t *testing.T, actorID uint64, session, slug string) (counted, appended bool) {
	t.Helper()
	res, err := w.engageS.TrackView(context.Background(), actorID, session, slug)
	require.NoError(t, err)
	return res.Counted, res.HistoryAppended
}

func (w *world) advance(d time.Duration) {
	w.clock = w.clock.Add(d)
}

func articleIDs(items []*dto.ArticleDTO) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func authorIDs(items []*dto.AuthorDTO) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func categoryIDs(items []*dto.CategoryDTO) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
