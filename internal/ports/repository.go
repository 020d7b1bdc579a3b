package ports

import (
	"context"

	"contentboost-shopify-layer/internal/domain"
)

// Repository defines the interface for shop persistence.
type Repository interface {
	// SaveShop saves or updates a shop (upsert by domain).
	SaveShop(ctx context.Context, shop *domain.Shop) error

	// GetShop retrieves a shop by domain; nil if not installed.
	GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error)

	// DeleteShop removes a shop record and its stored credential.
	DeleteShop(ctx context.Context, shopDomain string) error

	// ListShops retrieves all connected shops.
	ListShops(ctx context.Context) ([]*domain.Shop, error)

	// LogWebhook records a received webhook event.
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error
}

// TaskRepository defines the interface for bulk-optimization task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByShop(ctx context.Context, shopDomain string) ([]*domain.Task, error)
}
