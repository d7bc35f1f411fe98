package bootstrap

import (
	"context"
	"log/slog"

	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewBookingRateLimiter,
	),
)

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, booking rate limit disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewBookingRateLimiter(client *redis.Client, cfg config.Config, logger *slog.Logger) *middleware.RateLimiter {
	var counter middleware.WindowCounter
	if client != nil {
		counter = middleware.NewRedisWindowCounter(client)
	}
	return middleware.NewRateLimiter(counter, cfg.Redis, "rl:booking", logger)
}
