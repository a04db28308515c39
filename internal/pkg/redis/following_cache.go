package redis

import (
	"Parchment/internal/pkg/consts"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// emptyMember 占位成员，用于缓存“没有关注任何人”
const emptyMember = "0"

// FollowingCache 用户关注列表 ZSet，score 为关注时间；关注变更时推进代数使缓存失效
type FollowingCache struct {
	rdb *redis.Client
}

func NewFollowingCache(rdb *redis.Client) *FollowingCache {
	return &FollowingCache{rdb: rdb}
}

// GetFollowingIDs 按关注时间倒序返回，未命中时 ok 为 false；version 供回填时比对
func (c *FollowingCache) GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, bool, int64, error) {
	pipe := c.rdb.TxPipeline()
	members := pipe.ZRevRange(ctx, uintKey(consts.UserFollowingKey, userID), 0, -1)
	gen := pipe.Get(ctx, uintKey(consts.UserFollowingGenKey, userID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, false, 0, err
	}

	version, err := readGeneration(gen)
	if err != nil {
		return nil, false, 0, err
	}
	if len(members.Val()) == 0 {
		return nil, false, version, nil
	}
	filtered := make([]string, 0, len(members.Val()))
	for _, m := range members.Val() {
		if m != emptyMember {
			filtered = append(filtered, m)
		}
	}
	ids, err := parseIDs(filtered)
	if err != nil {
		return nil, false, 0, err
	}
	return ids, true, version, nil
}

// SetFollowing 覆盖写入关注列表，代数已变化时放弃写入，返回是否写入
func (c *FollowingCache) SetFollowing(ctx context.Context, userID uint64, ids []uint64, followedAt []time.Time, version int64, ttl time.Duration) (bool, error) {
	args := make([]interface{}, 0, 2*len(ids)+2)
	for i, id := range ids {
		var score int64
		if i < len(followedAt) {
			score = followedAt[i].Unix()
		}
		args = append(args, score, strconv.FormatUint(id, 10))
	}
	if len(args) == 0 {
		args = append(args, 0, emptyMember)
	}
	return runIfGeneration(ctx, c.rdb, zsetIfGenerationScript,
		uintKey(consts.UserFollowingKey, userID), uintKey(consts.UserFollowingGenKey, userID),
		version, ttl, args...)
}

func (c *FollowingCache) Invalidate(ctx context.Context, userID uint64) error {
	return bumpGeneration(ctx, c.rdb, uintKey(consts.UserFollowingKey, userID), uintKey(consts.UserFollowingGenKey, userID))
}
