// Package redis wires the optional Redis connection behind the distributed
// write lock.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qualityhub/attachment-service/pkg/config"
)

const (
	defaultAddr = "localhost:6379"
	pingTimeout = 5 * time.Second
)

// NewClient connects according to cfg and verifies the connection with a
// ping. A disabled section yields (nil, nil): the service then runs without
// the write lock.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	addr := cfg.Address
	if addr == "" {
		addr = defaultAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
