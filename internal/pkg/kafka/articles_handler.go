package kafka

import (
	"Parchment/internal/model"
	"Parchment/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// ArticleLoader 读取文章最新状态
type ArticleLoader interface {
	GetArticleByID(ctx context.Context, id uint64) (*model.Article, error)
}

// DirtyMarker 标记需要重算足迹的作者
type DirtyMarker interface {
	Mark(ctx context.Context, ids ...uint64) error
}

// searchedColumns 变更后需要重建索引的字段
var searchedColumns = []string{"slug", "title", "subtitle", "body", "author_id", "is_deleted"}

// ArticlesHandler 消费 articles 表变更：同步搜索索引，标记作者足迹待重算
type ArticlesHandler struct {
	articles ArticleLoader
	index    es.ArticleRepo
	dirty    DirtyMarker
}

func NewArticlesHandler(articles ArticleLoader, index es.ArticleRepo, dirty DirtyMarker) *ArticlesHandler {
	return &ArticlesHandler{
		articles: articles,
		index:    index,
		dirty:    dirty,
	}
}

func (s *ArticlesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article consumer setup")
	return nil
}

func (s *ArticlesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article consumer cleanup")
	return nil
}

func (s *ArticlesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-article consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-article process batch error", "err", err)
		return err
	}
	log.Info("topic-article consume claim end")
	return nil
}

func (s *ArticlesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "articles")
	if err != nil {
		return err
	}

	for i, row := range canalMsg.Data {
		articleID := StrToUint64(row["id"])
		if articleID == 0 {
			continue
		}
		old := canalMsg.OldRow(i)

		// 仅浏览数等统计字段变化时不触发同步
		if canalMsg.Type == UPDATE && !columnsChanged(old, searchedColumns...) {
			continue
		}

		authors := []uint64{StrToUint64(row["author_id"])}
		if prev := StrToUint64(old["author_id"]); prev != 0 {
			authors = append(authors, prev)
		}
		if err = s.dirty.Mark(ctx, authors...); err != nil {
			return errors.Wrap(err, "mark author footprint dirty")
		}

		if canalMsg.Type == DELETE || StrToBool(row["is_deleted"]) {
			if err = s.index.DeleteArticle(ctx, articleID); err != nil {
				return errors.Wrapf(err, "delete article %d from index", articleID)
			}
			continue
		}
		if err = reindex(ctx, s.articles, s.index, articleID, canalMsg.TS); err != nil {
			return err
		}
	}
	return nil
}

// reindex 以数据库中的最新状态覆写索引，canal 时间戳作为外部版本号
func reindex(ctx context.Context, articles ArticleLoader, index es.ArticleRepo, articleID uint64, version int64) error {
	article, err := articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return errors.Wrapf(err, "load article %d", articleID)
	}
	if article == nil {
		return index.DeleteArticle(ctx, articleID)
	}
	if err = index.IndexArticle(ctx, es.NewArticleES(article), version); err != nil {
		return errors.Wrapf(err, "index article %d", articleID)
	}
	return nil
}

// columnsChanged canal 的 old 只包含被修改的字段
func columnsChanged(old map[string]interface{}, columns ...string) bool {
	if old == nil {
		return true
	}
	for _, c := range columns {
		if _, ok := old[c]; ok {
			return true
		}
	}
	return false
}
