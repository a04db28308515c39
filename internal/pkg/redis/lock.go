package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("redis lock not acquired")

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// DistLocker 基于 SET NX 的跨实例锁，实现 engagement.Locker
type DistLocker struct {
	rdb        *redis.Client
	prefix     string
	expiration time.Duration
	retryTimes int
	retryDelay time.Duration
}

func NewDistLocker(rdb *redis.Client, prefix string, expiration time.Duration, retryTimes int) *DistLocker {
	return &DistLocker{
		rdb:        rdb,
		prefix:     prefix,
		expiration: expiration,
		retryTimes: retryTimes,
		retryDelay: 50 * time.Millisecond,
	}
}

func (l *DistLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := TryLock(ctx, l.rdb, fullKey, token, l.expiration, l.retryTimes, l.retryDelay)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return func() {
		// 请求 ctx 可能已取消，释放锁使用独立 ctx
		UnLock(context.Background(), l.rdb, fullKey, token)
	}, nil
}

// TryLock SET NX 重试 retryTimes 次，retryTimes 为 -1 时一直重试直到 ctx 结束
func TryLock(ctx context.Context, rdb *redis.Client, key string, value interface{}, expiration time.Duration, retryTimes int, retryDelay time.Duration) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return false, nil
}

// UnLock 仅当锁仍属于 value 时删除
func UnLock(ctx context.Context, rdb *redis.Client, key string, value interface{}) {
	rdb.Eval(ctx, unlockScript, []string{key}, value)
}
