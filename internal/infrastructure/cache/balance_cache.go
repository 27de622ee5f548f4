package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BalanceCache caches read models that are derived from ledger rows, such as
// receipt balances and agent ledgers. Writers invalidate the affected keys
// after their transaction commits.
type BalanceCache interface {
	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate drops the given keys
	Invalidate(ctx context.Context, keys ...string) error
}

// Key builders for cached read models
func ReceiptBalanceKey(receiptID int64) string {
	return "ledger:receipt:" + strconv.FormatInt(receiptID, 10) + ":balance"
}

func InstallmentKey(installmentID int64) string {
	return "ledger:installment:" + strconv.FormatInt(installmentID, 10)
}

func DebtKey(debtID int64) string {
	return "ledger:debt:" + strconv.FormatInt(debtID, 10)
}

func AgentLedgerKey(agentID int64) string {
	return "ledger:agent:" + strconv.FormatInt(agentID, 10) + ":transactions"
}

// RedisBalanceCache stores JSON-encoded values in redis
type RedisBalanceCache struct {
	client redis.UniversalClient
}

// NewRedisBalanceCache creates a cache on an existing client
func NewRedisBalanceCache(client redis.UniversalClient) *RedisBalanceCache {
	return &RedisBalanceCache{client: client}
}

func (c *RedisBalanceCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *RedisBalanceCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// InMemoryBalanceCache is the single-instance fallback used when no redis
// server is configured
type InMemoryBalanceCache struct {
	m *ttlMap
}

// NewInMemoryBalanceCache creates a cache that sweeps expired entries every minute
func NewInMemoryBalanceCache() *InMemoryBalanceCache {
	return &InMemoryBalanceCache{m: newTTLMap(time.Minute)}
}

func (c *InMemoryBalanceCache) Get(_ context.Context, key string, dest any) (bool, error) {
	data, ok := c.m.get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *InMemoryBalanceCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	c.m.set(key, data, ttl)
	return nil
}

func (c *InMemoryBalanceCache) Invalidate(_ context.Context, keys ...string) error {
	c.m.delete(keys...)
	return nil
}

// Close stops the sweeper
func (c *InMemoryBalanceCache) Close() error {
	c.m.close()
	return nil
}

var (
	_ BalanceCache = (*RedisBalanceCache)(nil)
	_ BalanceCache = (*InMemoryBalanceCache)(nil)
)
