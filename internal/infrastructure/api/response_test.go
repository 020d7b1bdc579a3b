package api

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: bad input", domain.ErrValidation), 400},
		{"authentication", fmt.Errorf("%w: nope", domain.ErrAuthentication), 401},
		{"authorization", fmt.Errorf("%w: scope missing", domain.ErrAuthorization), 403},
		{"not found", fmt.Errorf("%w: task x", domain.ErrNotFound), 404},
		{"upstream", fmt.Errorf("%w: shopify 500", domain.ErrUpstream), 502},
		{"unclassified", fmt.Errorf("something broke"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteError_ReinstallPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, zerolog.Nop(), &domain.ReinstallRequiredError{
		Shop:        "demo.myshopify.com",
		RedirectURL: "https://app.example.com/api/auth/install?shop=demo.myshopify.com",
	})

	assert.Equal(t, 401, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["requiresReinstall"])
	assert.Equal(t, "https://app.example.com/api/auth/install?shop=demo.myshopify.com", body["redirectUrl"])
}

func TestWriteError_WrappedReinstallStillMapsTo401(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("loading products: %w", &domain.ReinstallRequiredError{
		Shop:        "demo.myshopify.com",
		RedirectURL: "https://app.example.com/install",
	})
	writeError(rec, zerolog.Nop(), err)

	assert.Equal(t, 401, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["requiresReinstall"])
}
