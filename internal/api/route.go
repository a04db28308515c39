package api

import (
	"Parchment/internal/api/config"
	"Parchment/internal/api/middleware"
	"Parchment/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, serverCfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	// 浏览上报量大，只在 debug 级别记录
	r.Use(middleware.AuditMiddleware("/api/traces"))
	r.Use(middleware.CORSMiddleware(serverCfg.AllowOrigins))
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		articleGroup := apiGroup.Group("/articles")
		{
			articleGroup.GET("/related/:slug", group.ArticleHandler.GetRelatedArticles)

			authOptGroup := articleGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.ArticleHandler.ListArticles)
				authOptGroup.GET("/top", group.ArticleHandler.GetTopArticle)
			}
		}

		categoryGroup := apiGroup.Group("/categories")
		categoryGroup.Use(middleware.AuthOptionalMiddleware())
		{
			categoryGroup.GET("", group.CategoryHandler.GetCategories)
		}

		traceGroup := apiGroup.Group("/traces")
		{
			// 匿名浏览同样计数，需要会话标识
			trackGroup := traceGroup.Group("")
			trackGroup.Use(middleware.AuthOptionalMiddleware(), middleware.SessionMiddleware())
			{
				trackGroup.POST("", group.UserTraceHandler.TrackView)
			}

			authGroup := traceGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/profile", group.UserTraceHandler.GetProfile)
				authGroup.PUT("/interests", group.UserTraceHandler.UpdateInterests)
				authGroup.PUT("/configured", group.UserTraceHandler.SetConfigured)
				authGroup.POST("/lists/:list_id", group.UserTraceHandler.ToggleSavedList)
				authGroup.GET("/history", group.UserTraceHandler.GetHistory)
				authGroup.DELETE("/history", group.UserTraceHandler.ClearHistory)
			}
		}

		followGroup := apiGroup.Group("/follows")
		followGroup.Use(middleware.AuthMiddleware())
		{
			followGroup.GET("", group.UserFollowHandler.GetUserFollowings)
			followGroup.GET("/suggestions", group.UserFollowHandler.WhoToFollow)
		}
	}

	return r
}
