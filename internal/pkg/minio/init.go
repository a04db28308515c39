package minio

import (
	"Parchment/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MainBucket 头像与封面所在的存储桶
	MainBucket string
)

// Init 初始化 MinIO 客户端，未配置地址时跳过
func Init() error {
	cfg := config.Cfg.MinIO
	MainBucket = cfg.MainBucket

	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}
	if endpoint == "" {
		log.Warn("minio endpoint not configured, media urls are passed through")
		return nil
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ok, err := client.BucketExists(context.Background(), MainBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !ok {
		log.Warn("minio bucket not found", "bucket", MainBucket)
	}
	Client = client
	return nil
}
