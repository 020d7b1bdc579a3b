package application

import (
	"context"
	"fmt"
	"sync"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/encryption"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	"contentboost-shopify-layer/internal/infrastructure/tokenstore"
	"contentboost-shopify-layer/internal/ports"
	"contentboost-shopify-layer/internal/seo"

	shopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// fakeRepo is an in-memory ports.Repository.
type fakeRepo struct {
	mu       sync.Mutex
	shops    map[string]*domain.Shop
	webhooks []*domain.WebhookEvent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shops: make(map[string]*domain.Shop)}
}

func (r *fakeRepo) SaveShop(ctx context.Context, shop *domain.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *shop
	r.shops[shop.Domain] = &copied
	return nil
}

func (r *fakeRepo) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shop, ok := r.shops[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *shop
	return &copied, nil
}

func (r *fakeRepo) DeleteShop(ctx context.Context, shopDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shops, shopDomain)
	return nil
}

func (r *fakeRepo) ListShops(ctx context.Context) ([]*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shops := make([]*domain.Shop, 0, len(r.shops))
	for _, shop := range r.shops {
		copied := *shop
		shops = append(shops, &copied)
	}
	return shops, nil
}

func (r *fakeRepo) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhooks = append(r.webhooks, event)
	return nil
}

// fakeTaskRepo is an in-memory ports.TaskRepository.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	return r.Create(ctx, task)
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) ListByShop(ctx context.Context, shopDomain string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []*domain.Task
	for _, task := range r.tasks {
		if task.Shop == shopDomain {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	return tasks, nil
}

// fakeCache is an in-memory ports.CatalogCache.
type fakeCache struct {
	mu    sync.Mutex
	items map[string]*domain.CatalogItem
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]*domain.CatalogItem)}
}

func cacheKey(shop string, kind domain.CatalogKind, itemID int64) string {
	return fmt.Sprintf("%s/%s/%d", shop, kind, itemID)
}

func (c *fakeCache) SaveItems(ctx context.Context, items []*domain.CatalogItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range items {
		copied := *item
		c.items[cacheKey(item.Shop, item.Kind, item.ItemID)] = &copied
	}
	return nil
}

func (c *fakeCache) DeleteItem(ctx context.Context, shop string, kind domain.CatalogKind, itemID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, cacheKey(shop, kind, itemID))
	return nil
}

func (c *fakeCache) DeleteShop(ctx context.Context, shop string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if item.Shop == shop {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *fakeCache) Count(ctx context.Context, shop string, kind domain.CatalogKind) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var count int64
	for _, item := range c.items {
		if item.Shop == shop && item.Kind == kind {
			count++
		}
	}
	return count, nil
}

// fakeShopifyClient implements ports.ShopifyClient with overridable hooks.
// Methods without a hook fail loudly so a test cannot silently exercise an
// unexpected call.
type fakeShopifyClient struct {
	generateAuthURL func(shop string, scopes []string, redirectURI, state string) (string, error)
	exchangeToken   func(ctx context.Context, shop, code, redirectURI string) (string, error)
	getProducts     func(ctx context.Context, shop, accessToken string, options interface{}) ([]shopify.Product, error)
	getProduct      func(ctx context.Context, shop, accessToken string, productID int64) (*shopify.Product, error)
	updateProduct   func(ctx context.Context, shop, accessToken string, product *shopify.Product) (*shopify.Product, error)
	createWebhook   func(ctx context.Context, shop, accessToken, topic, address string) (*shopify.Webhook, error)
}

func (c *fakeShopifyClient) GenerateAuthURL(shop string, scopes []string, redirectURI, state string) (string, error) {
	if c.generateAuthURL == nil {
		return "", fmt.Errorf("unexpected GenerateAuthURL call")
	}
	return c.generateAuthURL(shop, scopes, redirectURI, state)
}

func (c *fakeShopifyClient) ExchangeToken(ctx context.Context, shop, code, redirectURI string) (string, error) {
	if c.exchangeToken == nil {
		return "", fmt.Errorf("unexpected ExchangeToken call")
	}
	return c.exchangeToken(ctx, shop, code, redirectURI)
}

func (c *fakeShopifyClient) GetShop(ctx context.Context, shop, accessToken string) (*shopify.Shop, error) {
	return nil, fmt.Errorf("unexpected GetShop call")
}

func (c *fakeShopifyClient) GetProducts(ctx context.Context, shop, accessToken string, options interface{}) ([]shopify.Product, error) {
	if c.getProducts == nil {
		return nil, fmt.Errorf("unexpected GetProducts call")
	}
	return c.getProducts(ctx, shop, accessToken, options)
}

func (c *fakeShopifyClient) GetProduct(ctx context.Context, shop, accessToken string, productID int64) (*shopify.Product, error) {
	if c.getProduct == nil {
		return nil, fmt.Errorf("unexpected GetProduct call")
	}
	return c.getProduct(ctx, shop, accessToken, productID)
}

func (c *fakeShopifyClient) UpdateProduct(ctx context.Context, shop, accessToken string, product *shopify.Product) (*shopify.Product, error) {
	if c.updateProduct == nil {
		return nil, fmt.Errorf("unexpected UpdateProduct call")
	}
	return c.updateProduct(ctx, shop, accessToken, product)
}

func (c *fakeShopifyClient) ListCustomCollections(ctx context.Context, shop, accessToken string, options interface{}) ([]shopify.CustomCollection, error) {
	return nil, fmt.Errorf("unexpected ListCustomCollections call")
}

func (c *fakeShopifyClient) GetCustomCollection(ctx context.Context, shop, accessToken string, collectionID int64) (*shopify.CustomCollection, error) {
	return nil, fmt.Errorf("unexpected GetCustomCollection call")
}

func (c *fakeShopifyClient) UpdateCustomCollection(ctx context.Context, shop, accessToken string, collection *shopify.CustomCollection) (*shopify.CustomCollection, error) {
	return nil, fmt.Errorf("unexpected UpdateCustomCollection call")
}

func (c *fakeShopifyClient) CreateWebhook(ctx context.Context, shop, accessToken, topic, address string) (*shopify.Webhook, error) {
	if c.createWebhook == nil {
		return nil, nil
	}
	return c.createWebhook(ctx, shop, accessToken, topic, address)
}

func (c *fakeShopifyClient) ListWebhooks(ctx context.Context, shop, accessToken string, options interface{}) ([]shopify.Webhook, error) {
	return nil, nil
}

func (c *fakeShopifyClient) DeleteWebhook(ctx context.Context, shop, accessToken string, webhookID int64) error {
	return nil
}

var _ ports.ShopifyClient = (*fakeShopifyClient)(nil)

// stubAIProvider returns a fixed response.
type stubAIProvider struct {
	name     string
	response string
	err      error
}

func (p *stubAIProvider) Name() string { return p.name }

func (p *stubAIProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

// stubRegistry is a minimal ports.ProviderRegistry.
type stubRegistry struct {
	providers map[string]ports.AIProvider
}

func newStubRegistry(providers ...ports.AIProvider) *stubRegistry {
	m := make(map[string]ports.AIProvider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &stubRegistry{providers: m}
}

func (r *stubRegistry) Get(name string) (ports.AIProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown AI provider: %s", name)
	}
	return p, nil
}

func (r *stubRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// authFixture wires an AuthService over in-memory fakes.
type authFixture struct {
	auth   *AuthService
	store  *tokenstore.MemoryStore
	repo   *fakeRepo
	client *fakeShopifyClient
}

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-api-secret"
	testAppURL    = "https://seo.example.com"
)

func newAuthFixture() *authFixture {
	store := tokenstore.NewMemoryStore(0)
	repo := newFakeRepo()
	client := &fakeShopifyClient{}

	encryptionSvc, err := encryption.NewService("test-encryption-secret")
	if err != nil {
		panic(err)
	}

	auth := NewAuthService(
		store,
		repo,
		encryptionSvc,
		client,
		nil,
		metrics.New(prometheus.NewRegistry()),
		zerolog.Nop(),
		testAPIKey,
		testAPISecret,
		testAppURL,
		"https://frontend.example.com",
		[]string{"read_products", "write_products"},
	)
	return &authFixture{auth: auth, store: store, repo: repo, client: client}
}

func newTestScorer() *seo.Scorer {
	return seo.NewScorer(zerolog.Nop())
}
