package middleware

import (
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionMaxLen    = 128
	sessionCookieAge = 60 * 60 * 24 * 365
)

// SessionMiddleware 识别设备会话：优先请求头，其次 Cookie，都没有时签发新的会话并写回 Cookie
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(consts.SessionHeader)
		if sessionID == "" {
			if v, err := c.Cookie(consts.SessionCookie); err == nil {
				sessionID = v
			}
		}
		if sessionID == "" || len(sessionID) > sessionMaxLen {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(consts.SessionCookie, sessionID, sessionCookieAge, "/", "", false, true)
		}

		c.Set(logger.SessionIDKey, sessionID)
		ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(consts.SessionHeader, sessionID)
		c.Next()
	}
}
