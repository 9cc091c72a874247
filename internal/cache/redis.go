package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates a redis client from cfg and verifies connectivity with
// a Ping bounded by a 5-second timeout. It returns nil, nil when redis is disabled.
func ConnectRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		slog.Info("Redis disabled, login throttling is off")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Redis connected successfully", "address", cfg.Address())
	return client, nil
}

// CloseRedis closes client if it is not nil.
func CloseRedis(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
