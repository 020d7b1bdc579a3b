package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"contentboost-shopify-layer/internal/application"
	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// AIHandler serves content analysis and single-item AI optimization.
type AIHandler struct {
	optimize *application.OptimizeService
	catalog  *application.CatalogService
	logger   zerolog.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(optimize *application.OptimizeService, catalog *application.CatalogService, logger zerolog.Logger) *AIHandler {
	return &AIHandler{optimize: optimize, catalog: catalog, logger: logger}
}

// optimizeRequest is the request body of the AI endpoints. The content can be
// given inline or referenced by product ID; inline wins when both are set.
type optimizeRequest struct {
	Provider  string          `json:"provider"`
	Content   *domain.Content `json:"content,omitempty"`
	ProductID int64           `json:"product_id,omitempty"`
}

func (h *AIHandler) resolveContent(r *http.Request, req *optimizeRequest) (domain.Content, error) {
	if req.Content != nil {
		return *req.Content, nil
	}
	if req.ProductID != 0 {
		shop := domain.GetShopDomainFromContext(r.Context())
		product, err := h.catalog.GetProduct(r.Context(), shop, req.ProductID)
		if err != nil {
			return domain.Content{}, err
		}
		return application.ContentFromProduct(product), nil
	}
	return domain.Content{}, fmt.Errorf("%w: content or product_id is required", domain.ErrValidation)
}

func (h *AIHandler) decode(r *http.Request) (*optimizeRequest, error) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return &req, nil
}

// Analyze handles POST /api/ai/analyze
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	content, err := h.resolveContent(r, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.optimize.Analyze(content))
}

// OptimizeTitle handles POST /api/ai/optimize-title
func (h *AIHandler) OptimizeTitle(w http.ResponseWriter, r *http.Request) {
	h.runOptimize(w, r, h.optimize.OptimizeTitle)
}

// OptimizeDescription handles POST /api/ai/optimize-description
func (h *AIHandler) OptimizeDescription(w http.ResponseWriter, r *http.Request) {
	h.runOptimize(w, r, h.optimize.OptimizeDescription)
}

// OptimizeImageAlt handles POST /api/ai/optimize-image-alt
func (h *AIHandler) OptimizeImageAlt(w http.ResponseWriter, r *http.Request) {
	h.runOptimize(w, r, h.optimize.OptimizeImageAlt)
}

type optimizeFunc func(ctx context.Context, provider string, content domain.Content) (*application.OptimizeResult, error)

func (h *AIHandler) runOptimize(w http.ResponseWriter, r *http.Request, fn optimizeFunc) {
	req, err := h.decode(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	content, err := h.resolveContent(r, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	result, err := fn(r.Context(), req.Provider, content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
