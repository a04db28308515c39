package security

import (
	"Parchment/internal/api/config"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSecretMissing = errors.New("未配置 JWT 密钥")

func secret() ([]byte, error) {
	if config.Cfg == nil || config.Cfg.JWT.Secret == "" {
		return nil, ErrSecretMissing
	}
	return []byte(config.Cfg.JWT.Secret), nil
}

func issuer() string {
	if config.Cfg != nil && config.Cfg.JWT.Issuer != "" {
		return config.Cfg.JWT.Issuer
	}
	return DefaultIssuer
}

// GenerateToken 生成一个新的 JWT Token
func GenerateToken(userID uint64, roles []string) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	now := time.Now()

	claims := &UserClaims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(JWTExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}
	return tokenString, nil
}

// ValidateToken 验证 Token 并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(issuer()))
	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token 无效或已过期")
	}
	return claims, nil
}

// ExtractSignature 从 Token 中取出签名段，用作黑名单的键
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.New("token 格式不正确")
	}
	return parts[2], nil
}
