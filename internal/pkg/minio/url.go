package minio

import (
	"Parchment/internal/api/config"
	"fmt"
	"strings"
)

// GetPublicURL 把对象名拼成外部可访问的地址，已是完整地址的原样返回
func GetPublicURL(objectName string) string {
	if objectName == "" {
		return ""
	}
	if strings.HasPrefix(objectName, "http://") || strings.HasPrefix(objectName, "https://") {
		return objectName
	}
	if config.Cfg == nil || config.Cfg.MinIO.ExternalEndpoint == "" {
		return objectName
	}
	cfg := config.Cfg.MinIO
	return fmt.Sprintf("https://%s/%s/%s", cfg.ExternalEndpoint, cfg.MainBucket, strings.TrimPrefix(objectName, "/"))
}
