package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"contentboost-shopify-layer/internal/application"
	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler handles app uninstalled webhook events
type AppUninstalledHandler struct {
	logger zerolog.Logger
	auth   *application.AuthService
	cache  ports.CatalogCache
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, auth *application.AuthService, cache ports.CatalogCache) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger: logger,
		auth:   auth,
		cache:  cache,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle drops every trace of the shop: the access token, the durable shop
// record, and the catalog cache. The uninstall already revoked the token on
// Shopify's side; keeping it would only produce 401s.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shopDomain := event.Shop
	if shopDomain == "" {
		var shopData map[string]interface{}
		if err := json.Unmarshal(event.Payload, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		if d, ok := shopData["myshopify_domain"].(string); ok {
			shopDomain = d
		} else if d, ok := shopData["domain"].(string); ok {
			shopDomain = d
		}
	}
	if shopDomain == "" {
		return fmt.Errorf("app uninstalled webhook without shop domain")
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", shopDomain).
		Msg("Processing app uninstalled webhook event")

	h.auth.Invalidate(ctx, shopDomain, "uninstalled")

	if err := h.cache.DeleteShop(ctx, shopDomain); err != nil {
		h.logger.Warn().Err(err).Str("shop", shopDomain).Msg("Failed to clear catalog cache")
	}

	return nil
}
