package dto

import "time"

// TrackResultDTO 一次浏览上报的处理结果
type TrackResultDTO struct {
	ArticleID       uint64 `json:"articleId"`
	TotalViews      int64  `json:"totalViews"`
	Counted         bool   `json:"counted"`
	HistoryAppended bool   `json:"historyAppended"`
}

type ProfileDTO struct {
	UserID           uint64         `json:"userId"`
	Interests        []*CategoryDTO `json:"interests"`
	ViewedCategories []*CategoryDTO `json:"viewedCategories"`
	SavedLists       []*UserListDTO `json:"savedLists"`
	Configured       bool           `json:"configured"`
}

type UserListDTO struct {
	ID       uint64 `json:"id"`
	AuthorID uint64 `json:"authorId"`
	Title    string `json:"title"`
	Privacy  string `json:"privacy"`
}

type HistoryItemDTO struct {
	Article *ArticleDTO `json:"article"`
	ReadAt  time.Time   `json:"readAt"`
}

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

type UpdateInterestsDTO struct {
	CategoryIDs []uint64 `json:"category_ids" validate:"required,min=1,max=50,dive,gt=0"`
	Action      string   `json:"action" validate:"required,oneof=add remove"`
}

type ConfiguredDTO struct {
	Configured *bool `json:"configured" validate:"required"`
}

// ToggleListDTO action 为空时按当前状态取反
type ToggleListDTO struct {
	Action string `json:"action" validate:"omitempty,oneof=add remove"`
}

type PageQuery struct {
	Page  int `form:"page" validate:"gte=0"`
	Limit int `form:"limit" validate:"gte=0"`
}
