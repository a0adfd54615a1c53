package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps window counters in Redis. Each bucket key expires on its
// own, so counters are shared across replicas and never accumulate.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "askgate:ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	full := s.prefix + key
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	// expiry slightly beyond the window so a bucket outlives its last read
	pipe.Expire(ctx, full, window+10*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
