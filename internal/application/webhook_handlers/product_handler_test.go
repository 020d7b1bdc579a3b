package webhook_handlers

import (
	"context"
	"fmt"
	"testing"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	items map[string]struct{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]struct{})}
}

func key(shop string, kind domain.CatalogKind, itemID int64) string {
	return fmt.Sprintf("%s/%s/%d", shop, kind, itemID)
}

func (c *memoryCache) SaveItems(ctx context.Context, items []*domain.CatalogItem) error {
	for _, item := range items {
		c.items[key(item.Shop, item.Kind, item.ItemID)] = struct{}{}
	}
	return nil
}

func (c *memoryCache) DeleteItem(ctx context.Context, shop string, kind domain.CatalogKind, itemID int64) error {
	delete(c.items, key(shop, kind, itemID))
	return nil
}

func (c *memoryCache) DeleteShop(ctx context.Context, shop string) error {
	for k := range c.items {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) Count(ctx context.Context, shop string, kind domain.CatalogKind) (int64, error) {
	return int64(len(c.items)), nil
}

func TestProductHandler_CanHandle(t *testing.T) {
	h := NewProductHandler(zerolog.Nop(), newMemoryCache())

	assert.True(t, h.CanHandle("products/update"))
	assert.True(t, h.CanHandle("products/delete"))
	assert.False(t, h.CanHandle("products/create"))
	assert.False(t, h.CanHandle("orders/create"))
}

func TestProductHandler_InvalidatesCache(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.SaveItems(context.Background(), []*domain.CatalogItem{{
		Shop:   "demo.myshopify.com",
		Kind:   domain.KindProduct,
		ItemID: 42,
	}}))

	h := NewProductHandler(zerolog.Nop(), cache)
	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:    "products/update",
		Shop:     "demo.myshopify.com",
		Payload:  []byte(`{"id":42,"title":"Chaussures"}`),
		Verified: true,
	})
	require.NoError(t, err)
	assert.Empty(t, cache.items)
}

func TestProductHandler_RejectsMalformedPayload(t *testing.T) {
	h := NewProductHandler(zerolog.Nop(), newMemoryCache())

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   "products/update",
		Shop:    "demo.myshopify.com",
		Payload: []byte("not json"),
	})
	assert.Error(t, err)

	err = h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   "products/update",
		Shop:    "demo.myshopify.com",
		Payload: []byte(`{"title":"no id"}`),
	})
	assert.Error(t, err)
}

func TestCollectionHandler_InvalidatesCache(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.SaveItems(context.Background(), []*domain.CatalogItem{{
		Shop:   "demo.myshopify.com",
		Kind:   domain.KindCollection,
		ItemID: 7,
	}}))

	h := NewCollectionHandler(zerolog.Nop(), cache)
	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   "collections/update",
		Shop:    "demo.myshopify.com",
		Payload: []byte(`{"id":7}`),
	})
	require.NoError(t, err)
	assert.Empty(t, cache.items)
}
