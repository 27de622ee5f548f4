package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backends bundles the cache-backed components the server needs. Client is
// nil when the in-memory fallback is in use.
type Backends struct {
	Client      redis.UniversalClient
	Idempotency shared.IdempotencyStore
	Balances    BalanceCache
}

// Close releases the stores and the redis client
func (b *Backends) Close() error {
	_ = b.Idempotency.Close()
	if c, ok := b.Balances.(*InMemoryBalanceCache); ok {
		_ = c.Close()
	}
	if b.Client != nil {
		return b.Client.Close()
	}
	return nil
}

// NewBackends connects to redis when configured and falls back to in-memory
// stores otherwise, or when the server cannot be reached.
func NewBackends(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Backends {
	if !cfg.Enabled() {
		logger.Info("redis not configured, using in-memory cache")
		return inMemoryBackends()
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return inMemoryBackends()
	}

	logger.Info("redis cache connected", zap.String("addr", cfg.Addr()))
	return &Backends{
		Client:      client,
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Balances:    NewRedisBalanceCache(client),
	}
}

// NewRedisClient creates a client and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func inMemoryBackends() *Backends {
	return &Backends{
		Idempotency: NewInMemoryIdempotencyStore(),
		Balances:    NewInMemoryBalanceCache(),
	}
}
