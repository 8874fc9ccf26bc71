package rdx

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init connects the shared redis client. Call once from main.
func Init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// KV adapts the shared redis client to the key-value interface the offline
// store is written against.
type KV struct{}

func (KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := Conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (KV) Set(ctx context.Context, key, value string) error {
	return Conn.Set(ctx, key, value, 0).Err()
}

func (KV) Delete(ctx context.Context, key string) error {
	return Conn.Del(ctx, key).Err()
}

func (KV) Keys(ctx context.Context, pattern string) ([]string, error) {
	return Conn.Keys(ctx, pattern).Result()
}
