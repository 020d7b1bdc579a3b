package tokenstore

import (
	"context"
	"sync"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"
)

// MemoryStore is an in-memory token store. With a zero TTL entries never
// expire and only explicit deletion (logout, revocation) removes them; with a
// positive TTL entries past it are lazily expired on read.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*domain.Token
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates an in-memory token store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]*domain.Token),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the token for a shop, expiring it first when a TTL is set and
// the entry is past it. A nil token means no valid entry exists.
func (s *MemoryStore) Get(ctx context.Context, shopDomain string) (*domain.Token, error) {
	s.mu.RLock()
	token, ok := s.tokens[shopDomain]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if s.ttl > 0 && s.now().Sub(token.IssuedAt) >= s.ttl {
		s.mu.Lock()
		delete(s.tokens, shopDomain)
		s.mu.Unlock()
		return nil, nil
	}

	copied := *token
	return &copied, nil
}

// Set stores a token, overwriting any prior entry for the shop.
func (s *MemoryStore) Set(ctx context.Context, token *domain.Token) error {
	copied := *token
	s.mu.Lock()
	s.tokens[token.Shop] = &copied
	s.mu.Unlock()
	return nil
}

// Delete removes a shop's token.
func (s *MemoryStore) Delete(ctx context.Context, shopDomain string) error {
	s.mu.Lock()
	delete(s.tokens, shopDomain)
	s.mu.Unlock()
	return nil
}

// ListShops returns the shops with a stored token.
func (s *MemoryStore) ListShops(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shops := make([]string, 0, len(s.tokens))
	for shop := range s.tokens {
		shops = append(shops, shop)
	}
	return shops, nil
}

var _ ports.TokenStore = (*MemoryStore)(nil)
