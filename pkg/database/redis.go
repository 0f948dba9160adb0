package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates a redis client and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	slog.Info("connected to redis", "addr", addr)
	return client, nil
}

// CloseRedisClient closes the redis client.
func CloseRedisClient(client *redis.Client) {
	if client != nil {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
}
