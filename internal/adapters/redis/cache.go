package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conferencecentral/internal/domain"
)

type cache struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCache returns a domain.Cache storing values under prefix+key. A zero ttl
// keeps values until they are overwritten or deleted.
func NewCache(client goredis.UniversalClient, prefix string, ttl time.Duration) domain.Cache {
	return &cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *cache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

func (c *cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
