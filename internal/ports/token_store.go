package ports

import (
	"context"

	"contentboost-shopify-layer/internal/domain"
)

// TokenStore holds access tokens keyed by shop domain. Implementations with
// TTL support expire entries on read; a nil token with a nil error means no
// valid entry exists.
type TokenStore interface {
	Get(ctx context.Context, shopDomain string) (*domain.Token, error)
	Set(ctx context.Context, token *domain.Token) error
	Delete(ctx context.Context, shopDomain string) error
	ListShops(ctx context.Context) ([]string, error)
}
