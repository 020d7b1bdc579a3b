package ports

import (
	"context"

	"contentboost-shopify-layer/internal/domain"
)

// CatalogCache persists synced catalog snapshots with their SEO scores.
type CatalogCache interface {
	SaveItems(ctx context.Context, items []*domain.CatalogItem) error
	DeleteItem(ctx context.Context, shop string, kind domain.CatalogKind, itemID int64) error
	DeleteShop(ctx context.Context, shop string) error
	Count(ctx context.Context, shop string, kind domain.CatalogKind) (int64, error)
}
