package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ricemill-erp/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache using Redis.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{
		client: client,
		prefix: "idempotency:",
	}
}

// Get retrieves a cached response by idempotency key.
// Returns nil, nil if the key does not exist.
func (c *IdempotencyCache) Get(ctx context.Context, key string) (*domain.IdempotentResponse, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}

	var resp domain.IdempotentResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, fmt.Errorf("redis idempotency decode: %w", err)
	}
	return &resp, nil
}

// Set stores a response in the idempotency cache with TTL.
func (c *IdempotencyCache) Set(ctx context.Context, key string, resp *domain.IdempotentResponse, ttl time.Duration) error {
	val, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("redis idempotency encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}
