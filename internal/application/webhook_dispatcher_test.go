package application

import (
	"context"
	"fmt"
	"testing"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	topic   string
	handled []*domain.WebhookEvent
	err     error
}

func (h *recordingHandler) CanHandle(topic string) bool { return topic == h.topic }

func (h *recordingHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.handled = append(h.handled, event)
	return h.err
}

func TestDispatch_LogsAndRoutes(t *testing.T) {
	repo := newFakeRepo()
	products := &recordingHandler{topic: "products/update"}
	uninstall := &recordingHandler{topic: "app/uninstalled"}
	dispatcher := NewWebhookDispatcher(repo, zerolog.Nop(), products, uninstall)

	event := &domain.WebhookEvent{
		Topic:    "products/update",
		Shop:     "demo.myshopify.com",
		Payload:  []byte(`{"id":1}`),
		Verified: true,
	}
	require.NoError(t, dispatcher.Dispatch(context.Background(), event))

	assert.Len(t, products.handled, 1)
	assert.Empty(t, uninstall.handled)
	assert.Len(t, repo.webhooks, 1)
}

func TestDispatch_RejectsUnverified(t *testing.T) {
	dispatcher := NewWebhookDispatcher(newFakeRepo(), zerolog.Nop())

	err := dispatcher.Dispatch(context.Background(), &domain.WebhookEvent{
		Topic: "products/update",
		Shop:  "demo.myshopify.com",
	})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestDispatch_HandlerErrorIsNotPropagated(t *testing.T) {
	failing := &recordingHandler{topic: "products/update", err: fmt.Errorf("boom")}
	dispatcher := NewWebhookDispatcher(newFakeRepo(), zerolog.Nop(), failing)

	err := dispatcher.Dispatch(context.Background(), &domain.WebhookEvent{
		Topic:    "products/update",
		Shop:     "demo.myshopify.com",
		Verified: true,
	})
	assert.NoError(t, err)
	assert.Len(t, failing.handled, 1)
}

func TestDispatch_UnknownTopicIsAccepted(t *testing.T) {
	dispatcher := NewWebhookDispatcher(newFakeRepo(), zerolog.Nop())

	err := dispatcher.Dispatch(context.Background(), &domain.WebhookEvent{
		Topic:    "themes/publish",
		Shop:     "demo.myshopify.com",
		Verified: true,
	})
	assert.NoError(t, err)
}
