package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// generationTTL 远大于一次回源耗时，过期后代数归零不会放过旧数据
const generationTTL = 24 * time.Hour

// KEYS[1] 数据键 KEYS[2] 代数键；ARGV[1] 读取时的代数 ARGV[2] 过期毫秒 ARGV[3] 值
var setIfGenerationScript = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[3], 'PX', ARGV[2])
return 1
`)

// KEYS 同上；ARGV[3..] 依次为 score member
var zsetIfGenerationScript = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
for i = 3, #ARGV, 2 do
	redis.call('ZADD', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// readGeneration 代数键不存在时为 0
func readGeneration(cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// bumpGeneration 删除缓存并推进代数，此前读到旧代数的回填都会被拒绝
func bumpGeneration(ctx context.Context, rdb *redis.Client, dataKey, genKey string) error {
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, dataKey)
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func runIfGeneration(ctx context.Context, rdb *redis.Client, script *redis.Script, dataKey, genKey string, version int64, ttl time.Duration, args ...interface{}) (bool, error) {
	argv := append([]interface{}{strconv.FormatInt(version, 10), ttl.Milliseconds()}, args...)
	n, err := script.Run(ctx, rdb, []string{dataKey, genKey}, argv...).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
