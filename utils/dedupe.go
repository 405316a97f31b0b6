package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers keys it has seen for a while
type Deduper interface {
	// FirstSeen marks key as seen and reports whether it was new
	FirstSeen(ctx context.Context, key string) (bool, error)
	// Forget drops key so a retry is treated as new
	Forget(ctx context.Context, key string) error
}

type redisDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDeduper builds a Deduper backed by SETNX with expiry
func NewRedisDeduper(addr, prefix string, ttl time.Duration) Deduper {
	return &redisDeduper{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *redisDeduper) key(k string) string {
	return fmt.Sprintf("%s:%s", r.prefix, k)
}

func (r *redisDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(key), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *redisDeduper) Forget(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
