package wire

import (
	"Parchment/internal/api/config"
	pkgredis "Parchment/internal/pkg/redis"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRepoFor(t *testing.T) {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{Addresses: []string{"http://127.0.0.1:9200"}})
	require.NoError(t, err)

	// 变更消费关闭时索引不会更新，不能用于搜索
	assert.Nil(t, searchRepoFor(config.KafkaConfig{Enable: false}, client))
	assert.Nil(t, searchRepoFor(config.KafkaConfig{Enable: true}, nil))
	assert.NotNil(t, searchRepoFor(config.KafkaConfig{Enable: true}, client))
}

func TestFollowingCacheFor(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := pkgredis.NewFollowingCache(rdb)

	// 必须是无类型的 nil，服务层据此判断是否走缓存
	assert.True(t, followingCacheFor(config.KafkaConfig{Enable: false}, cache) == nil)
	assert.True(t, followingCacheFor(config.KafkaConfig{Enable: true}, nil) == nil)
	assert.NotNil(t, followingCacheFor(config.KafkaConfig{Enable: true}, cache))
}
