// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists session carts between requests
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionCart, error)
	Save(ctx context.Context, cart *SessionCart) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps session carts as JSON documents with a TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load returns the stored cart, or a fresh empty one when none exists
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			State:     State{Lines: []Line{}},
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var sc SessionCart
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &sc, nil
}

// Save writes the cart and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, cart *SessionCart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.ttl)

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(cart.SessionID), data, s.ttl).Err()
}

// Delete removes the cart for a session
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
