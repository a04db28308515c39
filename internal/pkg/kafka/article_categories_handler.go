package kafka

import (
	"Parchment/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// ArticleCategoriesHandler 消费 article_categories 变更：分类调整后重建索引并标记作者
type ArticleCategoriesHandler struct {
	articles ArticleLoader
	index    es.ArticleRepo
	dirty    DirtyMarker
}

func NewArticleCategoriesHandler(articles ArticleLoader, index es.ArticleRepo, dirty DirtyMarker) *ArticleCategoriesHandler {
	return &ArticleCategoriesHandler{
		articles: articles,
		index:    index,
		dirty:    dirty,
	}
}

func (s *ArticleCategoriesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article category consumer setup")
	return nil
}

func (s *ArticleCategoriesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article category consumer cleanup")
	return nil
}

func (s *ArticleCategoriesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-article-category consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-article-category process batch error", "err", err)
		return err
	}
	log.Info("topic-article-category consume claim end")
	return nil
}

func (s *ArticleCategoriesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "article_categories")
	if err != nil {
		return err
	}

	seen := make(map[uint64]struct{}, len(canalMsg.Data))
	for _, row := range canalMsg.Data {
		articleID := StrToUint64(row["article_id"])
		if articleID == 0 {
			continue
		}
		if _, ok := seen[articleID]; ok {
			continue
		}
		seen[articleID] = struct{}{}

		article, err := s.articles.GetArticleByID(ctx, articleID)
		if err != nil {
			return errors.Wrapf(err, "load article %d", articleID)
		}
		if article == nil {
			continue
		}
		if err = s.dirty.Mark(ctx, article.AuthorID); err != nil {
			return errors.Wrap(err, "mark author footprint dirty")
		}
		if err = s.index.IndexArticle(ctx, es.NewArticleES(article), canalMsg.TS); err != nil {
			return errors.Wrapf(err, "index article %d", articleID)
		}
	}
	return nil
}
