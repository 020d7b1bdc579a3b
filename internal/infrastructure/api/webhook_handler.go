package api

import (
	"io"
	"net/http"

	"contentboost-shopify-layer/internal/application"
	"contentboost-shopify-layer/internal/domain"
	shopifyinfra "contentboost-shopify-layer/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

// WebhookHandler receives Shopify webhook deliveries.
type WebhookHandler struct {
	verifier   *shopifyinfra.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(verifier *shopifyinfra.WebhookVerifier, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, logger: logger}
}

// Receive handles POST /webhooks/shopify. The signature is checked against
// the raw body before anything is parsed; an invalid signature gets a 401 so
// Shopify stops delivering to a misconfigured endpoint.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	topic := r.Header.Get("X-Shopify-Topic")
	shop := r.Header.Get("X-Shopify-Shop-Domain")

	if err := h.verifier.Verify(body, r.Header.Get("X-Shopify-Hmac-SHA256")); err != nil {
		h.logger.Warn().
			Str("topic", topic).
			Str("shop", shop).
			Msg("Webhook signature verification failed")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	event := &domain.WebhookEvent{
		Topic:    topic,
		Shop:     shop,
		Payload:  body,
		Verified: true,
	}
	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
