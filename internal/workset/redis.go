package workset

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSet is a Set backed by a Redis SET, namespaced the same way the
// Python original's redis_set does: key = "set:<name>".
type RedisSet struct {
	client *redis.Client
	key    string
}

// NewRedisSet returns a Set over the named pool, e.g. "pool_pages",
// "pool_pdf", "pool_text_extractor", "pool_date_extractor" (spec §6).
func NewRedisSet(client *redis.Client, name string) *RedisSet {
	return &RedisSet{client: client, key: fmt.Sprintf("set:%s", name)}
}

func (s *RedisSet) Size(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, s.key).Result()
}

func (s *RedisSet) AddMany(ctx context.Context, entries [][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	members := make([]interface{}, len(entries))
	for i, e := range entries {
		members[i] = e
	}
	return s.client.SAdd(ctx, s.key, members...).Err()
}

func (s *RedisSet) PopMany(ctx context.Context, n int64) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	items, err := s.client.SPopN(ctx, s.key, n).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(items))
	for i, it := range items {
		out[i] = []byte(it)
	}
	return out, nil
}
