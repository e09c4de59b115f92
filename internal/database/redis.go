package database

import (
	"context"
	"fmt"

	"surety-web/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the client backing export-job status tracking. Callers
// treat a connection failure as "background exports disabled" rather than
// fatal, so the error carries enough context to log and move on.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.GetRedisAddr(), err)
	}

	return client, nil
}
