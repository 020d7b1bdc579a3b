package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// CollectionHandler handles collection-related webhook events
type CollectionHandler struct {
	logger zerolog.Logger
	cache  ports.CatalogCache
}

// NewCollectionHandler creates a new collection webhook handler
func NewCollectionHandler(logger zerolog.Logger, cache ports.CatalogCache) *CollectionHandler {
	return &CollectionHandler{
		logger: logger,
		cache:  cache,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *CollectionHandler) CanHandle(topic string) bool {
	return topic == "collections/update" || topic == "collections/delete"
}

// Handle invalidates the cached snapshot for the collection.
func (h *CollectionHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var collectionData map[string]interface{}
	if err := json.Unmarshal(event.Payload, &collectionData); err != nil {
		return fmt.Errorf("failed to parse collection webhook payload: %w", err)
	}

	collectionID, _ := collectionData["id"].(float64)

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Int64("collectionId", int64(collectionID)).
		Msg("Processing collection webhook event")

	if collectionID == 0 {
		return fmt.Errorf("collection webhook without id")
	}

	if err := h.cache.DeleteItem(ctx, event.Shop, domain.KindCollection, int64(collectionID)); err != nil {
		return fmt.Errorf("failed to invalidate cached collection: %w", err)
	}
	return nil
}
