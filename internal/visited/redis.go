package visited

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisSet is a Set backed by plain Redis string keys, one per doc_id,
// matching the Python original's bare `shared_visited_links = redis.Redis()`.
type RedisSet struct {
	client *redis.Client
	prefix string
}

// NewRedisSet returns a visited-set sharing client with the work-sets but
// keyed under its own prefix so it never collides with pool keys.
func NewRedisSet(client *redis.Client) *RedisSet {
	return &RedisSet{client: client, prefix: "visited:"}
}

func (s *RedisSet) Mark(ctx context.Context, key string) error {
	return s.client.Set(ctx, s.prefix+key, 1, 0).Err()
}

func (s *RedisSet) MarkMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, k := range keys {
		pipe.Set(ctx, s.prefix+k, 1, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSet) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSet) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
