package middleware

import (
	"Parchment/internal/pkg/logger"
	"errors"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c)
		if err != nil {
			if !errors.Is(err, errTokenMissing) && !errors.Is(err, errTokenInvalid) {
				log.WarnContext(c.Request.Context(), "token blacklist lookup failed", "err", err)
			}
			c.Set(logger.UserIDKey, uint64(0))
			c.Next()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}
