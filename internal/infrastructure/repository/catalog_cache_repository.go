package repository

import (
	"context"
	"fmt"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogCache implements CatalogCache using MongoDB
type MongoCatalogCache struct {
	collection *mongo.Collection
}

// NewMongoCatalogCache creates a new MongoDB catalog cache
func NewMongoCatalogCache(db *mongo.Database) ports.CatalogCache {
	return &MongoCatalogCache{
		collection: db.Collection("catalog_cache"),
	}
}

// SaveItems upserts catalog snapshots keyed by (shop, kind, item_id)
func (r *MongoCatalogCache) SaveItems(ctx context.Context, items []*domain.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	now := time.Now()
	for _, item := range items {
		item.UpdatedAt = now
		if item.SyncedAt.IsZero() {
			item.SyncedAt = now
		}
		filter := bson.M{"shop": item.Shop, "kind": item.Kind, "item_id": item.ItemID}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(item).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := r.collection.BulkWrite(ctx, models, opts); err != nil {
		return fmt.Errorf("failed to save catalog items: %w", err)
	}
	return nil
}

// DeleteItem removes a single cached entry
func (r *MongoCatalogCache) DeleteItem(ctx context.Context, shop string, kind domain.CatalogKind, itemID int64) error {
	filter := bson.M{"shop": shop, "kind": kind, "item_id": itemID}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}
	return nil
}

// DeleteShop removes all cached entries for a shop
func (r *MongoCatalogCache) DeleteShop(ctx context.Context, shop string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete catalog cache for shop: %w", err)
	}
	return nil
}

// Count returns the number of cached entries of a kind for a shop
func (r *MongoCatalogCache) Count(ctx context.Context, shop string, kind domain.CatalogKind) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"shop": shop, "kind": kind})
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog items: %w", err)
	}
	return count, nil
}
