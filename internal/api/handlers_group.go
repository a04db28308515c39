package api

import "Parchment/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ArticleHandler    *handler.ArticleHandler
	CategoryHandler   *handler.CategoryHandler
	UserTraceHandler  *handler.UserTraceHandler
	UserFollowHandler *handler.UserFollowHandler
}
