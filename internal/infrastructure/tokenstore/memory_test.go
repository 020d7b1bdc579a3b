package tokenstore

import (
	"context"
	"testing"
	"time"

	"contentboost-shopify-layer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	token, err := store.Get(ctx, "missing.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, token)

	original := &domain.Token{
		Shop:        "demo.myshopify.com",
		AccessToken: "shpat_abc",
		IssuedAt:    time.Now(),
	}
	require.NoError(t, store.Set(ctx, original))

	got, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "shpat_abc", got.AccessToken)

	// The store hands out copies, not aliases.
	got.AccessToken = "mutated"
	again, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "shpat_abc", again.AccessToken)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &domain.Token{
		Shop:        "demo.myshopify.com",
		AccessToken: "shpat_abc",
		IssuedAt:    time.Now().Add(-365 * 24 * time.Hour),
	}))

	got, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	issued := time.Now()
	require.NoError(t, store.Set(ctx, &domain.Token{
		Shop:        "demo.myshopify.com",
		AccessToken: "shpat_abc",
		IssuedAt:    issued,
	}))

	store.now = func() time.Time { return issued.Add(30 * time.Minute) }
	got, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.NotNil(t, got)

	store.now = func() time.Time { return issued.Add(2 * time.Hour) }
	got, err = store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	// The expired entry is gone, not just hidden.
	shops, err := store.ListShops(ctx)
	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &domain.Token{Shop: "demo.myshopify.com", AccessToken: "x"}))
	require.NoError(t, store.Delete(ctx, "demo.myshopify.com"))

	got, err := store.Get(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing entry is not an error.
	assert.NoError(t, store.Delete(ctx, "demo.myshopify.com"))
}

func TestMemoryStore_ListShops(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &domain.Token{Shop: "a.myshopify.com", AccessToken: "x"}))
	require.NoError(t, store.Set(ctx, &domain.Token{Shop: "b.myshopify.com", AccessToken: "y"}))

	shops, err := store.ListShops(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.myshopify.com", "b.myshopify.com"}, shops)
}
