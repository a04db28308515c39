package handler

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/response"
	"Parchment/internal/pkg/util"
	"Parchment/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleSvc service.ArticleService
}

func NewArticleHandler(articleSvc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleSvc: articleSvc}
}

func (s *ArticleHandler) ListArticles(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.ArticleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.articleSvc.ListArticles(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *ArticleHandler) GetTopArticle(c *gin.Context) {
	userID := c.GetUint64("user_id")

	article, err := s.articleSvc.GetTopArticle(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) GetRelatedArticles(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	articles, err := s.articleSvc.GetRelatedArticles(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, articles)
}
