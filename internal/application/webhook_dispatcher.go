package application

import (
	"context"
	"fmt"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events for the topics it declares.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher logs every verified webhook delivery and fans it out to
// the registered handlers. Handler errors are logged, not returned: Shopify
// retries on non-2xx, and a handler bug must not cause a retry storm.
type WebhookDispatcher struct {
	repository ports.Repository
	handlers   []WebhookHandler
	logger     zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher.
func NewWebhookDispatcher(repository ports.Repository, logger zerolog.Logger, handlers ...WebhookHandler) *WebhookDispatcher {
	return &WebhookDispatcher{
		repository: repository,
		handlers:   handlers,
		logger:     logger,
	}
}

// Dispatch records the event and runs every matching handler.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	if !event.Verified {
		return fmt.Errorf("%w: unverified webhook", domain.ErrAuthentication)
	}

	if err := d.repository.LogWebhook(ctx, event); err != nil {
		d.logger.Error().Err(err).
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("Failed to log webhook event")
	}

	handled := 0
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		handled++
		if err := handler.Handle(ctx, event); err != nil {
			d.logger.Error().Err(err).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Webhook handler failed")
		}
	}

	if handled == 0 {
		d.logger.Debug().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("No handler for webhook topic")
	}
	return nil
}
