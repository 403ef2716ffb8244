// internal/domain/order/sequence.go
package order

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InvoiceSequencer hands out increasing invoice sequence numbers per year
type InvoiceSequencer interface {
	Next(ctx context.Context, year int) (int64, error)
}

// RedisSequencer keeps one counter per year in Redis
type RedisSequencer struct {
	client *redis.Client
}

// NewRedisSequencer creates a Redis-backed invoice sequencer
func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{client: client}
}

// Next increments and returns the counter for year
func (s *RedisSequencer) Next(ctx context.Context, year int) (int64, error) {
	seq, err := s.client.Incr(ctx, fmt.Sprintf("invoice:seq:%d", year)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return seq, nil
}
