package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/learnhub-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// Options builds client options from config. One client is shared by the record store, the
// catalog cache and the rate limiter.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedis connects and pings before handing the client out.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := Options(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return client, nil
}
