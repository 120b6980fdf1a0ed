package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicholaswilven/book-recsys/core"
)

// RedisStore 把推荐数据落在 Redis 上：
//   - String：dataset 的 books/users 快照（JSON）
//   - Hash：按用户分片的评分表（field 为 user_id）
//   - ZSet：热度榜，score 为评分次数
//
// 离线任务负责写入，引擎侧只读，所以这里没有事务语义，批量写走 pipeline 即可。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Close() error { return s.client.Close() }

// ttlSeconds 取可选 TTL 参数，0 表示不过期
func ttlSeconds(ttl []int) time.Duration {
	if len(ttl) == 0 || ttl[0] <= 0 {
		return 0
	}
	return time.Duration(ttl[0]) * time.Second
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return s.client.Set(ctx, key, value, ttlSeconds(ttl)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	// 缺失的 key 在 MGet 结果里是 nil，和 Get 不同这里直接跳过而不是报 NotFound
	for i, v := range vals {
		if str, ok := v.(string); ok {
			result[keys[i]] = []byte(str)
		}
	}
	return result, nil
}

func (s *RedisStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	expiration := ttlSeconds(ttl)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range kvs {
			pipe.Set(ctx, k, v, expiration)
		}
		return nil
	})
	return err
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) ([]byte, error) {
	val, err := s.client.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (s *RedisStore) HSet(ctx context.Context, key, field string, value []byte) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]byte, len(vals))
	for field, v := range vals {
		result[field] = []byte(v)
	}
	return result, nil
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRange 按 score 从高到低返回成员，热度榜取 Top-N 用
func (s *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.client.ZRevRange(ctx, key, start, stop).Result()
}

func (s *RedisStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	score, err := s.client.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, core.ErrStoreNotFound
	}
	return score, err
}

var _ core.Store = (*RedisStore)(nil)
var _ core.KeyValueStore = (*RedisStore)(nil)
