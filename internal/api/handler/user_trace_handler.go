package handler

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/pkg/logger"
	"Parchment/internal/pkg/response"
	"Parchment/internal/pkg/util"
	"Parchment/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserTraceHandler struct {
	engagementSvc service.EngagementService
	userTraceSvc  service.UserTraceService
}

func NewUserTraceHandler(engagementSvc service.EngagementService, userTraceSvc service.UserTraceService) *UserTraceHandler {
	return &UserTraceHandler{
		engagementSvc: engagementSvc,
		userTraceSvc:  userTraceSvc,
	}
}

// TrackView 上报一次浏览，会话由 SessionMiddleware 注入
func (s *UserTraceHandler) TrackView(c *gin.Context) {
	userID := c.GetUint64("user_id")
	sessionID := c.GetString(logger.SessionIDKey)
	slug := c.Query("target")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.engagementSvc.TrackView(c.Request.Context(), userID, sessionID, slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *UserTraceHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")

	profile, err := s.userTraceSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *UserTraceHandler) UpdateInterests(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.UpdateInterestsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userTraceSvc.UpdateInterests(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserTraceHandler) SetConfigured(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ConfiguredDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userTraceSvc.SetConfigured(c.Request.Context(), userID, *req.Configured); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleSavedList 请求体可省略，省略时按当前状态取反
func (s *UserTraceHandler) ToggleSavedList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listID, err := strconv.ParseUint(c.Param("list_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.ToggleListDTO
	if c.Request.ContentLength > 0 {
		if err = c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		if err = util.ValidateDTO(&req); err != nil {
			response.Error(c, err)
			return
		}
	}

	saved, err := s.userTraceSvc.ToggleSavedList(c.Request.Context(), userID, listID, req.Action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"saved": saved})
}

func (s *UserTraceHandler) GetHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	history, err := s.userTraceSvc.GetHistory(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

func (s *UserTraceHandler) ClearHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.userTraceSvc.ClearHistory(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
