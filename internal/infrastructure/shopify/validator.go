package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenValidator checks whether a stored access token is still honored by
// Shopify. Offline tokens don't expire on a schedule; they only become
// invalid when revoked (merchant uninstall or admin action).
type TokenValidator struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewTokenValidator creates a new token validator.
func NewTokenValidator(logger zerolog.Logger) *TokenValidator {
	return &TokenValidator{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// ValidateToken makes a lightweight shop.json call with the token. It returns
// false only on a definitive 401/403; transient failures are treated as valid
// so a network blip never forces a re-install.
func (tv *TokenValidator) ValidateToken(ctx context.Context, token string, shopDomain string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token is empty")
	}
	if shopDomain == "" {
		return false, fmt.Errorf("shop domain is required for token validation")
	}

	url := fmt.Sprintf("https://%s/admin/api/2024-01/shop.json", NormalizeShopDomain(shopDomain))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := tv.httpClient.Do(req)
	if err != nil {
		tv.logger.Warn().
			Err(err).
			Str("shop", shopDomain).
			Msg("Token validation network error (assuming token is valid)")
		return true, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		tv.logger.Warn().
			Int("status", resp.StatusCode).
			Str("shop", shopDomain).
			Msg("Token validation failed: token is invalid or revoked")
		return false, nil
	}

	return true, nil
}

// IsAuthError reports whether an error from a Shopify API call indicates a
// revoked or invalid credential. The go-shopify library wraps HTTP errors, so
// we check the error text.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{"401", "unauthorized", "invalid api key or access token", "authentication"} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
