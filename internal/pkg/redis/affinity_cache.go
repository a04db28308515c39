package redis

import (
	"Parchment/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// AffinityCache 缓存用户的候选分类集合，回填受代数保护
type AffinityCache struct {
	rdb *redis.Client
}

func NewAffinityCache(rdb *redis.Client) *AffinityCache {
	return &AffinityCache{rdb: rdb}
}

// Get 未命中时 ok 为 false；version 供回填时比对
func (c *AffinityCache) Get(ctx context.Context, userID uint64) ([]uint64, bool, int64, error) {
	pipe := c.rdb.TxPipeline()
	data := pipe.Get(ctx, uintKey(consts.UserAffinityKey, userID))
	gen := pipe.Get(ctx, uintKey(consts.UserAffinityGenKey, userID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, false, 0, err
	}

	version, err := readGeneration(gen)
	if err != nil {
		return nil, false, 0, err
	}
	raw, err := data.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, version, nil
		}
		return nil, false, 0, err
	}
	var ids []uint64
	if err = json.Unmarshal(raw, &ids); err != nil {
		return nil, false, 0, err
	}
	return ids, true, version, nil
}

// Set 只有代数仍为 version 时才写入，返回是否写入
func (c *AffinityCache) Set(ctx context.Context, userID uint64, ids []uint64, version int64, ttl time.Duration) (bool, error) {
	if ids == nil {
		ids = []uint64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return false, err
	}
	return runIfGeneration(ctx, c.rdb, setIfGenerationScript,
		uintKey(consts.UserAffinityKey, userID), uintKey(consts.UserAffinityGenKey, userID),
		version, ttl, string(raw))
}

func (c *AffinityCache) Invalidate(ctx context.Context, userID uint64) error {
	return bumpGeneration(ctx, c.rdb, uintKey(consts.UserAffinityKey, userID), uintKey(consts.UserAffinityGenKey, userID))
}
