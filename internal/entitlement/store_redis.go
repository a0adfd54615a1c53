package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entitlements in Redis with native expiry, so resolutions
// are shared across replicas of the service.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "askgate:entitlement:"}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Entitlement, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+userID).Result()
	if err == redis.Nil {
		return Entitlement{}, false, nil
	}
	if err != nil {
		return Entitlement{}, false, err
	}
	var e Entitlement
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entitlement{}, false, fmt.Errorf("corrupt entitlement entry for %s: %w", userID, err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID string, e Entitlement, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+userID, raw, ttl).Err()
}
