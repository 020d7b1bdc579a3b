package ports

import (
	"context"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// ShopifyClient defines the interface for Shopify API operations used by this
// app. It covers the OAuth handshake plus the product, collection, and
// webhook surfaces the SEO assistant works with.
type ShopifyClient interface {
	// Authentication
	GenerateAuthURL(shop string, scopes []string, redirectURI string, state string) (string, error)
	ExchangeToken(ctx context.Context, shop string, code string, redirectURI string) (string, error)

	// Shop API
	GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error)

	// Product API
	GetProducts(ctx context.Context, shop string, accessToken string, options interface{}) ([]shopify.Product, error)
	GetProduct(ctx context.Context, shop string, accessToken string, productID int64) (*shopify.Product, error)
	UpdateProduct(ctx context.Context, shop string, accessToken string, product *shopify.Product) (*shopify.Product, error)

	// Collection API
	ListCustomCollections(ctx context.Context, shop string, accessToken string, options interface{}) ([]shopify.CustomCollection, error)
	GetCustomCollection(ctx context.Context, shop string, accessToken string, collectionID int64) (*shopify.CustomCollection, error)
	UpdateCustomCollection(ctx context.Context, shop string, accessToken string, collection *shopify.CustomCollection) (*shopify.CustomCollection, error)

	// Webhook API
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) (*shopify.Webhook, error)
	ListWebhooks(ctx context.Context, shop string, accessToken string, options interface{}) ([]shopify.Webhook, error)
	DeleteWebhook(ctx context.Context, shop string, accessToken string, webhookID int64) error
}
