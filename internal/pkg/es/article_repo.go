package es

import (
	"Parchment/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
)

// MaxSearchDepth 文本检索最多返回的命中数，检索结果只用于限定候选池
const MaxSearchDepth = 400

type ArticleRepo interface {
	SearchArticleIDs(ctx context.Context, keyword string, size int) ([]uint64, error)
	IndexArticle(ctx context.Context, article *ArticleES, version int64) error
	DeleteArticle(ctx context.Context, id uint64) error
}

type ArticleRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewArticleRepo(client *elasticsearch.TypedClient, index string) ArticleRepo {
	return &ArticleRepoImpl{client: client, index: index}
}

// SearchArticleIDs 按相关度返回命中文章的 ID
func (s *ArticleRepoImpl) SearchArticleIDs(ctx context.Context, keyword string, size int) ([]uint64, error) {
	if keyword == "" {
		return []uint64{}, nil
	}
	if size <= 0 || size > MaxSearchDepth {
		size = MaxSearchDepth
	}

	resp, err := s.client.Search().
		Index(s.index).
		Query(searchQuery(keyword)).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Id_ == nil {
			continue
		}
		id, err := strconv.ParseUint(*hit.Id_, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func searchQuery(keyword string) *types.Query {
	fuzziness := "AUTO"
	return &types.Query{
		Bool: &types.BoolQuery{
			Should: []types.Query{
				{
					MultiMatch: &types.MultiMatchQuery{
						Query:  keyword,
						Fields: []string{"title^3", "subtitle^2", "body"},
						Boost:  util.PtrFloat32(2.0),
					},
				},
				{
					MultiMatch: &types.MultiMatchQuery{
						Query:     keyword,
						Fields:    []string{"title", "body"},
						Fuzziness: fuzziness,
						Boost:     util.PtrFloat32(0.5),
					},
				},
			},
		},
	}
}

// IndexArticle 以外部版本号写入，旧版本的变更会被忽略
func (s *ArticleRepoImpl) IndexArticle(ctx context.Context, article *ArticleES, version int64) error {
	_, err := s.client.Index(s.index).
		Id(strconv.FormatUint(article.ID, 10)).
		Document(article).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if isStatus(err, ConflictCode) {
		return nil
	}
	return err
}

func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(s.index, strconv.FormatUint(id, 10)).Do(ctx)
	if isStatus(err, NotFoundCode) {
		return nil
	}
	return err
}

func isStatus(err error, status int) bool {
	if err == nil {
		return false
	}
	var e *types.ElasticsearchError
	return errors.As(err, &e) && e.Status == status
}
