package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DirtySet 待重算 ID 集合。定时任务通过 Take/Done 以 rename 的方式消费，
// 消费期间新写入的 ID 会落到新的集合里。
type DirtySet struct {
	rdb *redis.Client
	key string
}

func NewDirtySet(rdb *redis.Client, key string) *DirtySet {
	return &DirtySet{rdb: rdb, key: key}
}

func (d *DirtySet) Mark(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, strconv.FormatUint(id, 10))
	}
	return d.rdb.SAdd(ctx, d.key, members...).Err()
}

// Take 将集合改名为 :processing 并返回其成员；集合不存在时返回空
func (d *DirtySet) Take(ctx context.Context) ([]uint64, error) {
	processing := d.processingKey()

	// 上次任务中断时遗留的 processing 集合优先处理
	if n, err := d.rdb.Exists(ctx, processing).Result(); err != nil {
		return nil, err
	} else if n == 0 {
		if err = d.rdb.Rename(ctx, d.key, processing).Err(); err != nil {
			if isNoSuchKey(err) {
				return []uint64{}, nil
			}
			return nil, err
		}
	}

	members, err := d.rdb.SMembers(ctx, processing).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(members)
}

// Done 删除 processing 集合
func (d *DirtySet) Done(ctx context.Context) error {
	return d.rdb.Del(ctx, d.processingKey()).Err()
}

func (d *DirtySet) processingKey() string {
	return d.key + ":processing"
}

func isNoSuchKey(err error) bool {
	return errors.Is(err, redis.Nil) || strings.Contains(err.Error(), "no such key")
}
