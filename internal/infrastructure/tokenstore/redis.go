package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "shopify:token:"

// RedisStore is a token store backed by Redis. Expiry is native: when a TTL
// is configured the key simply disappears, so there is no lazy-expiry path to
// get wrong.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed token store. A zero TTL stores tokens
// without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the token for a shop, or nil when no entry exists.
func (s *RedisStore) Get(ctx context.Context, shopDomain string) (*domain.Token, error) {
	raw, err := s.client.Get(ctx, tokenKeyPrefix+shopDomain).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var token domain.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// Set stores a token, overwriting any prior entry for the shop.
func (s *RedisStore) Set(ctx context.Context, token *domain.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := s.client.Set(ctx, tokenKeyPrefix+token.Shop, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	return nil
}

// Delete removes a shop's token.
func (s *RedisStore) Delete(ctx context.Context, shopDomain string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+shopDomain).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ListShops returns the shops with a stored token.
func (s *RedisStore) ListShops(ctx context.Context) ([]string, error) {
	var shops []string
	iter := s.client.Scan(ctx, 0, tokenKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		shops = append(shops, iter.Val()[len(tokenKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan tokens: %w", err)
	}
	return shops, nil
}

var _ ports.TokenStore = (*RedisStore)(nil)
