package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related webhook events
type ProductHandler struct {
	logger zerolog.Logger
	cache  ports.CatalogCache
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(logger zerolog.Logger, cache ports.CatalogCache) *ProductHandler {
	return &ProductHandler{
		logger: logger,
		cache:  cache,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == "products/update" || topic == "products/delete"
}

// Handle invalidates the cached snapshot for the product. An update made in
// the Shopify admin makes the cached score stale; the next sync or update
// recomputes it.
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var productData map[string]interface{}
	if err := json.Unmarshal(event.Payload, &productData); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}

	productID, _ := productData["id"].(float64)
	title, _ := productData["title"].(string)

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Int64("productId", int64(productID)).
		Str("title", title).
		Msg("Processing product webhook event")

	if productID == 0 {
		return fmt.Errorf("product webhook without id")
	}

	if err := h.cache.DeleteItem(ctx, event.Shop, domain.KindProduct, int64(productID)); err != nil {
		return fmt.Errorf("failed to invalidate cached product: %w", err)
	}
	return nil
}
