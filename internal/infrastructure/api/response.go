package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the application error taxonomy onto HTTP statuses. A
// reinstall error additionally carries the redirect the frontend needs to
// restart the OAuth flow.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var reinstall *domain.ReinstallRequiredError
	if errors.As(err, &reinstall) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":             "shop requires reinstall",
			"requiresReinstall": true,
			"redirectUrl":       reinstall.RedirectURL,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		logger.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
