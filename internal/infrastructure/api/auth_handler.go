package api

import (
	"net/http"

	"contentboost-shopify-layer/internal/application"

	"github.com/rs/zerolog"
)

// AuthHandler serves the OAuth install flow and session endpoints.
type AuthHandler struct {
	auth   *application.AuthService
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *application.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Install starts the OAuth flow: GET /api/auth/install?shop=...
func (h *AuthHandler) Install(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.auth.BeginInstall(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the OAuth flow: GET /api/auth/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	redirectURL, err := h.auth.CompleteInstall(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Status reports the authentication state: GET /api/auth/status?shop=...
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	authenticated, shops, err := h.auth.Status(r.Context(), r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": authenticated,
		"shops":         shops,
	})
}

// Logout deletes the stored credential: POST /api/auth/logout?shop=...
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.URL.Query().Get("shop")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
