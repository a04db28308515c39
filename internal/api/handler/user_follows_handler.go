package handler

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/response"
	"Parchment/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	followSvc service.FollowSuggestionService
}

func NewUserFollowHandler(followSvc service.FollowSuggestionService) *UserFollowHandler {
	return &UserFollowHandler{followSvc: followSvc}
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	followings, err := s.followSvc.GetFollowingUsers(c.Request.Context(), userId, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) WhoToFollow(c *gin.Context) {
	userId := c.GetUint64("user_id")

	authors, err := s.followSvc.WhoToFollow(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, authors)
}
