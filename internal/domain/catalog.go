package domain

import "time"

// CatalogKind distinguishes cached catalog entries.
type CatalogKind string

const (
	KindProduct    CatalogKind = "product"
	KindCollection CatalogKind = "collection"
)

// CatalogItem is a cached snapshot of a product or collection with its last
// computed SEO score. The live listing always comes from Shopify; the cache
// backs sync counts and score history.
type CatalogItem struct {
	Shop      string      `json:"shop" bson:"shop"`
	Kind      CatalogKind `json:"kind" bson:"kind"`
	ItemID    int64       `json:"item_id" bson:"item_id"`
	Title     string      `json:"title" bson:"title"`
	Handle    string      `json:"handle" bson:"handle"`
	Score     int         `json:"score" bson:"score"`
	SyncedAt  time.Time   `json:"synced_at" bson:"synced_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}
