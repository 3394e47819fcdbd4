package vault

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the credential store with redis, whose native
// per-key TTL is exactly the expiry model sessions need: revocation is
// a DEL, expiry is redis's own.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) RedisStore {
	return RedisStore{rdb: rdb}
}

func (s RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
