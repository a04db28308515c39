package handler

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/logger"
	"Parchment/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArticles struct {
	query *dto.ArticleListQuery
	actor uint64
}

func (s *stubArticles) GetTopArticle(context.Context, uint64) (*dto.ArticleDTO, error) {
	return nil, service.ErrArticleNotFound
}

func (s *stubArticles) ListArticles(_ context.Context, actorID uint64, q *dto.ArticleListQuery) (*dto.PageDTO[*dto.ArticleDTO], error) {
	s.actor, s.query = actorID, q
	return &dto.PageDTO[*dto.ArticleDTO]{CurrentPage: 1, Data: []*dto.ArticleDTO{{ID: 7, Slug: "s"}}}, nil
}

func (s *stubArticles) GetRelatedArticles(context.Context, string) ([]*dto.ArticleDTO, error) {
	return []*dto.ArticleDTO{}, nil
}

type stubEngagement struct {
	session string
	slug    string
}

func (s *stubEngagement) TrackView(_ context.Context, _ uint64, sessionID, slug string) (*dto.TrackResultDTO, error) {
	s.session, s.slug = sessionID, slug
	return &dto.TrackResultDTO{ArticleID: 1, TotalViews: 3, Counted: true}, nil
}

type stubTraces struct {
	service.UserTraceService
	listID uint64
	action string
	err    error
}

func (s *stubTraces) ToggleSavedList(_ context.Context, _, listID uint64, action string) (bool, error) {
	s.listID, s.action = listID, action
	return action != dto.ActionRemove, s.err
}

func (s *stubTraces) UpdateInterests(context.Context, uint64, *dto.UpdateInterestsDTO) error {
	return nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine(actorID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(logger.UserIDKey, actorID)
		c.Set(logger.SessionIDKey, "sess-1")
		c.Next()
	})
	return r
}

func call(t *testing.T, r *gin.Engine, method, target, body string) envelope {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestArticleHandler(t *testing.T) {
	svc := &stubArticles{}
	h := NewArticleHandler(svc)
	r := newEngine(5)
	r.GET("/articles", h.ListArticles)
	r.GET("/articles/top", h.GetTopArticle)

	env := call(t, r, http.MethodGet, "/articles?userbased=1&page=2&limit=3&category=1,2&sort=views", "")
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, uint64(5), svc.actor)
	assert.Equal(t, &dto.ArticleListQuery{UserBased: 1, Page: 2, Limit: 3, Category: "1,2", Sort: "views"}, svc.query)

	var page dto.PageDTO[*dto.ArticleDTO]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, uint64(7), page.Data[0].ID)

	assert.Equal(t, 400, call(t, r, http.MethodGet, "/articles?userbased=2", "").Code)
	assert.Equal(t, 400, call(t, r, http.MethodGet, "/articles?sort=random", "").Code)
	assert.Equal(t, 400, call(t, r, http.MethodGet, "/articles?page=abc", "").Code)

	env = call(t, r, http.MethodGet, "/articles/top", "")
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, service.ErrArticleNotFound.Error(), env.Message)
}

func TestUserTraceHandler_TrackView(t *testing.T) {
	svc := &stubEngagement{}
	h := NewUserTraceHandler(svc, &stubTraces{})
	r := newEngine(0)
	r.POST("/traces", h.TrackView)

	assert.Equal(t, 400, call(t, r, http.MethodPost, "/traces", "").Code)

	env := call(t, r, http.MethodPost, "/traces?target=hello-world", "")
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "sess-1", svc.session)
	assert.Equal(t, "hello-world", svc.slug)

	var res dto.TrackResultDTO
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Counted)
	assert.Equal(t, int64(3), res.TotalViews)
}

func TestUserTraceHandler_ToggleSavedList(t *testing.T) {
	traces := &stubTraces{}
	h := NewUserTraceHandler(&stubEngagement{}, traces)
	r := newEngine(5)
	r.POST("/traces/lists/:list_id", h.ToggleSavedList)

	env := call(t, r, http.MethodPost, "/traces/lists/9", "")
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, uint64(9), traces.listID)
	assert.Empty(t, traces.action)
	assert.JSONEq(t, `{"saved":true}`, string(env.Data))

	env = call(t, r, http.MethodPost, "/traces/lists/9", `{"action":"remove"}`)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, dto.ActionRemove, traces.action)
	assert.JSONEq(t, `{"saved":false}`, string(env.Data))

	assert.Equal(t, 400, call(t, r, http.MethodPost, "/traces/lists/9", `{"action":"flip"}`).Code)
	assert.Equal(t, 400, call(t, r, http.MethodPost, "/traces/lists/abc", "").Code)

	traces.err = service.ErrListForbidden
	assert.Equal(t, 403, call(t, r, http.MethodPost, "/traces/lists/9", "").Code)
}

func TestUserTraceHandler_UpdateInterests(t *testing.T) {
	h := NewUserTraceHandler(&stubEngagement{}, &stubTraces{})
	r := newEngine(5)
	r.PUT("/traces/interests", h.UpdateInterests)

	assert.Equal(t, 200, call(t, r, http.MethodPut, "/traces/interests", `{"category_ids":[1,2],"action":"add"}`).Code)
	assert.Equal(t, 400, call(t, r, http.MethodPut, "/traces/interests", `{"category_ids":[],"action":"add"}`).Code)
	assert.Equal(t, 400, call(t, r, http.MethodPut, "/traces/interests", `{"category_ids":[1]}`).Code)
	assert.Equal(t, 400, call(t, r, http.MethodPut, "/traces/interests", `{"category_ids":"x"}`).Code)
}
