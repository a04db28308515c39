package es

import (
	"Parchment/internal/api/config"
	"Parchment/internal/pkg/logger"
	"context"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var ArticleIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端
func InitClient() error {
	elasticCfg := config.Cfg.Elastic
	ArticleIndex = elasticCfg.Indices.ArticleIndex

	cfg := elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: logger.NewESTransport(),
	}

	var err error
	Client, err = elasticsearch.NewTypedClient(cfg)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	info, err := Client.Info().Do(context.Background())
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	log.Info("Connected to Elasticsearch", "version", info.Version.Int)

	if err = ensureArticleIndex(context.Background(), Client, ArticleIndex); err != nil {
		log.Error("Cannot create article index", "index", ArticleIndex, "err", err)
		return err
	}
	return nil
}

// ensureArticleIndex 索引不存在时按 ArticleES 建立映射
func ensureArticleIndex(ctx context.Context, client *elasticsearch.TypedClient, index string) error {
	exists, err := client.Indices.Exists(index).IsSuccess(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = client.Indices.Create(index).Mappings(articleMapping()).Do(ctx)
	if isStatus(err, http.StatusBadRequest) {
		// 并发启动时可能已被其他实例创建
		return nil
	}
	return err
}

func articleMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewUnsignedLongNumberProperty(),
			"author_id":    types.NewUnsignedLongNumberProperty(),
			"slug":         types.NewKeywordProperty(),
			"title":        types.NewTextProperty(),
			"subtitle":     types.NewTextProperty(),
			"body":         types.NewTextProperty(),
			"category_ids": types.NewUnsignedLongNumberProperty(),
			"views":        types.NewLongNumberProperty(),
			"created_at":   types.NewDateProperty(),
			"updated_at":   types.NewDateProperty(),
		},
	}
}
