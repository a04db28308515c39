package handler

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/response"
	"Parchment/internal/pkg/util"
	"Parchment/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

func (s *CategoryHandler) GetCategories(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.CategoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	categories, err := s.categorySvc.GetCategories(c.Request.Context(), userID, query.UserBased, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}
