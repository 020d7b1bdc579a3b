package api

import (
	"fmt"
	"net/http"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	securitymiddleware "contentboost-shopify-layer/internal/infrastructure/middleware"
	shopifyinfra "contentboost-shopify-layer/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	AI      *AIHandler
	Tasks   *TaskHandler
	Webhook *WebhookHandler
}

// requireShop extracts the shop domain from the X-Shopify-Shop-Domain header
// or the shop query parameter and puts it on the request context. Requests
// without one are rejected before reaching a handler.
func requireShop(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shop := r.Header.Get("X-Shopify-Shop-Domain")
			if shop == "" {
				shop = r.URL.Query().Get("shop")
			}
			shop = shopifyinfra.NormalizeShopDomain(shop)
			if shop == "" {
				writeError(w, logger, fmt.Errorf("%w: shop is required", domain.ErrValidation))
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithShopDomain(r.Context(), shop)))
		})
	}
}

// NewRouter assembles the HTTP surface.
func NewRouter(
	h Handlers,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	frontendURL string,
	logger zerolog.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.MetricsMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL, "https://*.myshopify.com", "https://admin.shopify.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Post("/webhooks/shopify", h.Webhook.Receive)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/install", h.Auth.Install)
			r.Get("/callback", h.Auth.Callback)
			r.Get("/status", h.Auth.Status)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireShop(logger))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Catalog.ListProducts)
				r.Post("/sync", h.Catalog.SyncProducts)
				r.Get("/{id}", h.Catalog.GetProduct)
				r.Put("/{id}", h.Catalog.UpdateProduct)
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", h.Catalog.ListCollections)
				r.Post("/sync", h.Catalog.SyncCollections)
				r.Get("/{id}", h.Catalog.GetCollection)
				r.Put("/{id}", h.Catalog.UpdateCollection)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Post("/analyze", h.AI.Analyze)
				r.Post("/optimize-title", h.AI.OptimizeTitle)
				r.Post("/optimize-description", h.AI.OptimizeDescription)
				r.Post("/optimize-image-alt", h.AI.OptimizeImageAlt)
			})

			r.Route("/optimizations", func(r chi.Router) {
				r.Get("/", h.Tasks.List)
				r.Post("/bulk", h.Tasks.Create)
				r.Get("/{id}", h.Tasks.Get)
				r.Get("/{id}/events", h.Tasks.Events)
			})
		})
	})

	return r
}
