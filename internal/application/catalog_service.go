package application

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/ports"
	"contentboost-shopify-layer/internal/seo"

	shopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ListOptions are the catalog listing filters. Filtering and sorting are
// applied over the page returned by Shopify, not pushed down to the API.
type ListOptions struct {
	Search string
	Status string
	Sort   string // title, score, updated
	Limit  int
	Offset int
}

// ImageView is the wire shape of a catalog image.
type ImageView struct {
	ID     int64  `json:"id"`
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ProductView is the product shape served to the frontend: the raw Shopify
// fields the UI edits plus the computed SEO score.
type ProductView struct {
	ID       int64               `json:"id"`
	Title    string              `json:"title"`
	BodyHTML string              `json:"body_html"`
	Handle   string              `json:"handle"`
	Status   string              `json:"status"`
	Vendor   string              `json:"vendor"`
	Tags     string              `json:"tags"`
	Images   []ImageView         `json:"images"`
	Score    *domain.ScoreResult `json:"seo,omitempty"`
}

// CollectionView is the custom collection shape served to the frontend.
type CollectionView struct {
	ID       int64               `json:"id"`
	Title    string              `json:"title"`
	BodyHTML string              `json:"body_html"`
	Handle   string              `json:"handle"`
	Image    *ImageView          `json:"image,omitempty"`
	Score    *domain.ScoreResult `json:"seo,omitempty"`
}

// ContentUpdate carries the editable SEO fields of a product or collection.
// Nil fields are left untouched.
type ContentUpdate struct {
	Title    *string `json:"title,omitempty"`
	BodyHTML *string `json:"body_html,omitempty"`
}

// SyncSummary reports the outcome of a catalog sync.
type SyncSummary struct {
	Shop     string `json:"shop"`
	Kind     string `json:"kind"`
	Synced   int    `json:"synced"`
	Cached   int64  `json:"cached"`
	Duration string `json:"duration"`
}

// CatalogService proxies the Shopify product and collection APIs, scoring
// every item it serves and keeping a mongo-backed snapshot cache in sync.
type CatalogService struct {
	client ports.ShopifyClient
	auth   *AuthService
	cache  ports.CatalogCache
	scorer *seo.Scorer
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	client ports.ShopifyClient,
	auth *AuthService,
	cache ports.CatalogCache,
	scorer *seo.Scorer,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		client: client,
		auth:   auth,
		cache:  cache,
		scorer: scorer,
		logger: logger,
	}
}

// token resolves an active access token for the shop or returns the mapped
// credential error.
func (s *CatalogService) token(ctx context.Context, shop string) (string, error) {
	state := s.auth.Resolve(ctx, shop)
	if state.Kind != domain.TokenActive {
		return "", domain.StateError(shop, state)
	}
	return state.AccessToken, nil
}

// wrapShopifyErr maps an upstream error, demoting revoked credentials to a
// reinstall error via the auth service.
func (s *CatalogService) wrapShopifyErr(ctx context.Context, shop string, err error) error {
	state := s.auth.HandleAuthError(ctx, shop, err)
	if state.Kind == domain.TokenNeedsReinstall {
		return domain.StateError(shop, state)
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

// The go-shopify structs are converted through their JSON encoding, which
// matches the Admin REST field names, into the local view models. This keeps
// the view layer independent of SDK struct details.
func convertVia[T any](src interface{}) (T, error) {
	var dst T
	raw, err := json.Marshal(src)
	if err != nil {
		return dst, err
	}
	if err := json.Unmarshal(raw, &dst); err != nil {
		return dst, err
	}
	return dst, nil
}

func productView(p *shopify.Product) (*ProductView, error) {
	view, err := convertVia[ProductView](p)
	if err != nil {
		return nil, fmt.Errorf("failed to convert product: %w", err)
	}
	return &view, nil
}

func collectionView(c *shopify.CustomCollection) (*CollectionView, error) {
	view, err := convertVia[CollectionView](c)
	if err != nil {
		return nil, fmt.Errorf("failed to convert collection: %w", err)
	}
	return &view, nil
}

var (
	headingRe = regexp.MustCompile(`(?is)<h([123])[^>]*>(.*?)</h[123]>`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// StripHTML removes markup and collapses whitespace.
func StripHTML(html string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(tagRe.ReplaceAllString(html, " "), " "))
}

// ContentFromProduct assembles the scorable content record for a product:
// the title doubles as H1, headings are parsed out of the body HTML, and the
// comma-separated tags serve as keywords.
func ContentFromProduct(p *ProductView) domain.Content {
	content := domain.Content{
		Title:       p.Title,
		Description: StripHTML(p.BodyHTML),
		H1:          p.Title,
	}

	for _, m := range headingRe.FindAllStringSubmatch(p.BodyHTML, -1) {
		text := StripHTML(m[2])
		switch m[1] {
		case "2":
			content.H2 = append(content.H2, text)
		case "3":
			content.H3 = append(content.H3, text)
		}
	}

	for _, tag := range strings.Split(p.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			content.Keywords = append(content.Keywords, tag)
		}
	}

	for _, img := range p.Images {
		content.Images = append(content.Images, domain.Image{
			Width:  img.Width,
			Height: img.Height,
			Alt:    img.Alt,
		})
	}

	return content
}

// ContentFromCollection assembles the scorable content record for a custom
// collection.
func ContentFromCollection(c *CollectionView) domain.Content {
	content := domain.Content{
		Title:       c.Title,
		Description: StripHTML(c.BodyHTML),
		H1:          c.Title,
	}
	for _, m := range headingRe.FindAllStringSubmatch(c.BodyHTML, -1) {
		text := StripHTML(m[2])
		switch m[1] {
		case "2":
			content.H2 = append(content.H2, text)
		case "3":
			content.H3 = append(content.H3, text)
		}
	}
	if c.Image != nil {
		content.Images = append(content.Images, domain.Image{
			Width:  c.Image.Width,
			Height: c.Image.Height,
			Alt:    c.Image.Alt,
		})
	}
	return content
}

// ListProducts returns the shop's products with scores, filtered and sorted
// per the options.
func (s *CatalogService) ListProducts(ctx context.Context, shop string, opts ListOptions) ([]*ProductView, error) {
	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	products, err := s.client.GetProducts(ctx, shop, accessToken, nil)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	views := make([]*ProductView, 0, len(products))
	for i := range products {
		view, err := productView(&products[i])
		if err != nil {
			return nil, err
		}
		score := s.scorer.Score(ContentFromProduct(view))
		view.Score = &score
		views = append(views, view)
	}

	return filterProducts(views, opts), nil
}

func filterProducts(views []*ProductView, opts ListOptions) []*ProductView {
	filtered := views[:0:0]
	search := strings.ToLower(opts.Search)
	for _, v := range views {
		if opts.Status != "" && v.Status != opts.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(v.Title), search) &&
			!strings.Contains(strings.ToLower(v.Tags), search) {
			continue
		}
		filtered = append(filtered, v)
	}

	switch opts.Sort {
	case "title":
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	case "score":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Score.TotalScore > filtered[j].Score.TotalScore
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(filtered) {
			return []*ProductView{}
		}
		filtered = filtered[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}

// GetProduct returns a single product with its score.
func (s *CatalogService) GetProduct(ctx context.Context, shop string, productID int64) (*ProductView, error) {
	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	product, err := s.client.GetProduct(ctx, shop, accessToken, productID)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	view, err := productView(product)
	if err != nil {
		return nil, err
	}
	score := s.scorer.Score(ContentFromProduct(view))
	view.Score = &score
	return view, nil
}

// UpdateProduct applies a content update to a product on Shopify and returns
// the rescored result.
func (s *CatalogService) UpdateProduct(ctx context.Context, shop string, productID int64, update ContentUpdate) (*ProductView, error) {
	if update.Title == nil && update.BodyHTML == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	product, err := s.client.GetProduct(ctx, shop, accessToken, productID)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	if update.Title != nil {
		product.Title = *update.Title
	}
	if update.BodyHTML != nil {
		product.BodyHTML = *update.BodyHTML
	}

	updated, err := s.client.UpdateProduct(ctx, shop, accessToken, product)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	view, err := productView(updated)
	if err != nil {
		return nil, err
	}
	score := s.scorer.Score(ContentFromProduct(view))
	view.Score = &score

	if err := s.cache.SaveItems(ctx, []*domain.CatalogItem{{
		Shop:   shop,
		Kind:   domain.KindProduct,
		ItemID: view.ID,
		Title:  view.Title,
		Handle: view.Handle,
		Score:  score.TotalScore,
	}}); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Int64("product_id", productID).
			Msg("Failed to refresh catalog cache after update")
	}

	s.logger.Info().
		Str("shop", shop).
		Int64("product_id", productID).
		Int("score", score.TotalScore).
		Msg("Product content updated")

	return view, nil
}

// SyncProducts fetches the shop's products, scores them, and upserts the
// snapshots into the mongo cache.
func (s *CatalogService) SyncProducts(ctx context.Context, shop string) (*SyncSummary, error) {
	start := time.Now()

	views, err := s.ListProducts(ctx, shop, ListOptions{})
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CatalogItem, 0, len(views))
	now := time.Now()
	for _, v := range views {
		items = append(items, &domain.CatalogItem{
			Shop:     shop,
			Kind:     domain.KindProduct,
			ItemID:   v.ID,
			Title:    v.Title,
			Handle:   v.Handle,
			Score:    v.Score.TotalScore,
			SyncedAt: now,
		})
	}
	if err := s.cache.SaveItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to cache products: %w", err)
	}

	cached, err := s.cache.Count(ctx, shop, domain.KindProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to count cached products: %w", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Int("synced", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Product sync completed")

	return &SyncSummary{
		Shop:     shop,
		Kind:     string(domain.KindProduct),
		Synced:   len(items),
		Cached:   cached,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}, nil
}

// ListCollections returns the shop's custom collections with scores.
func (s *CatalogService) ListCollections(ctx context.Context, shop string, opts ListOptions) ([]*CollectionView, error) {
	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	collections, err := s.client.ListCustomCollections(ctx, shop, accessToken, nil)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	views := make([]*CollectionView, 0, len(collections))
	search := strings.ToLower(opts.Search)
	for i := range collections {
		view, err := collectionView(&collections[i])
		if err != nil {
			return nil, err
		}
		if search != "" && !strings.Contains(strings.ToLower(view.Title), search) {
			continue
		}
		score := s.scorer.Score(ContentFromCollection(view))
		view.Score = &score
		views = append(views, view)
	}

	switch opts.Sort {
	case "title":
		sort.SliceStable(views, func(i, j int) bool {
			return strings.ToLower(views[i].Title) < strings.ToLower(views[j].Title)
		})
	case "score":
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Score.TotalScore > views[j].Score.TotalScore
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(views) {
			return []*CollectionView{}, nil
		}
		views = views[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(views) {
		views = views[:opts.Limit]
	}
	return views, nil
}

// GetCollection returns a single custom collection with its score.
func (s *CatalogService) GetCollection(ctx context.Context, shop string, collectionID int64) (*CollectionView, error) {
	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	collection, err := s.client.GetCustomCollection(ctx, shop, accessToken, collectionID)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	view, err := collectionView(collection)
	if err != nil {
		return nil, err
	}
	score := s.scorer.Score(ContentFromCollection(view))
	view.Score = &score
	return view, nil
}

// UpdateCollection applies a content update to a custom collection and
// returns the rescored result.
func (s *CatalogService) UpdateCollection(ctx context.Context, shop string, collectionID int64, update ContentUpdate) (*CollectionView, error) {
	if update.Title == nil && update.BodyHTML == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	accessToken, err := s.token(ctx, shop)
	if err != nil {
		return nil, err
	}

	collection, err := s.client.GetCustomCollection(ctx, shop, accessToken, collectionID)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	if update.Title != nil {
		collection.Title = *update.Title
	}
	if update.BodyHTML != nil {
		collection.BodyHTML = *update.BodyHTML
	}

	updated, err := s.client.UpdateCustomCollection(ctx, shop, accessToken, collection)
	if err != nil {
		return nil, s.wrapShopifyErr(ctx, shop, err)
	}

	view, err := collectionView(updated)
	if err != nil {
		return nil, err
	}
	score := s.scorer.Score(ContentFromCollection(view))
	view.Score = &score

	if err := s.cache.SaveItems(ctx, []*domain.CatalogItem{{
		Shop:   shop,
		Kind:   domain.KindCollection,
		ItemID: view.ID,
		Title:  view.Title,
		Handle: view.Handle,
		Score:  score.TotalScore,
	}}); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Int64("collection_id", collectionID).
			Msg("Failed to refresh catalog cache after update")
	}

	return view, nil
}

// SyncCollections fetches the shop's custom collections, scores them, and
// upserts the snapshots into the mongo cache.
func (s *CatalogService) SyncCollections(ctx context.Context, shop string) (*SyncSummary, error) {
	start := time.Now()

	views, err := s.ListCollections(ctx, shop, ListOptions{})
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CatalogItem, 0, len(views))
	now := time.Now()
	for _, v := range views {
		items = append(items, &domain.CatalogItem{
			Shop:     shop,
			Kind:     domain.KindCollection,
			ItemID:   v.ID,
			Title:    v.Title,
			Handle:   v.Handle,
			Score:    v.Score.TotalScore,
			SyncedAt: now,
		})
	}
	if err := s.cache.SaveItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to cache collections: %w", err)
	}

	cached, err := s.cache.Count(ctx, shop, domain.KindCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to count cached collections: %w", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Int("synced", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Collection sync completed")

	return &SyncSummary{
		Shop:     shop,
		Kind:     string(domain.KindCollection),
		Synced:   len(items),
		Cached:   cached,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}, nil
}
