package middleware

import (
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/logger"
	"Parchment/internal/pkg/redis"
	"Parchment/internal/pkg/response"
	"Parchment/internal/pkg/security"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errTokenMissing = errors.New("Token 缺失或格式错误")
	errTokenInvalid = errors.New("Token 无效或已过期")
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c)
		if err != nil {
			if errors.Is(err, errTokenMissing) || errors.Is(err, errTokenInvalid) {
				response.Fail(c, response.Unauthorized, err.Error())
			} else {
				response.Fail(c, response.InternalServerError, "未知错误")
			}
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// authenticate 解析 Bearer Token，并检查签名是否已被注销
func authenticate(c *gin.Context) (*security.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errTokenMissing
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return nil, errTokenMissing
	}

	value, err := redis.GetValue(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil {
		return nil, err
	}
	if value != "" {
		return nil, errTokenInvalid
	}

	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		return nil, errTokenInvalid
	}
	return claims, nil
}

func setActor(c *gin.Context, claims *security.UserClaims) {
	c.Set(logger.UserIDKey, claims.UserID)
	c.Set("roles", claims.Roles)

	newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
