package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"sync"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	shopifyinfra "contentboost-shopify-layer/internal/infrastructure/shopify"
	"contentboost-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const sessionLifetime = 10 * time.Minute

// TokenChecker verifies a stored token against Shopify before it is trusted
// again after a cold start.
type TokenChecker interface {
	ValidateToken(ctx context.Context, token string, shopDomain string) (bool, error)
}

// AuthService drives the OAuth install lifecycle and resolves shop
// credentials for every authenticated call. The hot path reads the token
// store; the encrypted mongo record is the durable fallback that survives a
// restart.
type AuthService struct {
	tokenStore    ports.TokenStore
	repository    ports.Repository
	encryptionSvc ports.EncryptionService
	client        ports.ShopifyClient
	checker       TokenChecker
	metrics       *metrics.Metrics
	logger        zerolog.Logger

	apiKey      string
	apiSecret   string
	appURL      string
	frontendURL string
	scopes      []string

	sessionMu sync.Mutex
	sessions  map[string]*domain.Session
}

// NewAuthService creates a new auth service.
func NewAuthService(
	tokenStore ports.TokenStore,
	repository ports.Repository,
	encryptionSvc ports.EncryptionService,
	client ports.ShopifyClient,
	checker TokenChecker,
	m *metrics.Metrics,
	logger zerolog.Logger,
	apiKey, apiSecret, appURL, frontendURL string,
	scopes []string,
) *AuthService {
	return &AuthService{
		tokenStore:    tokenStore,
		repository:    repository,
		encryptionSvc: encryptionSvc,
		client:        client,
		checker:       checker,
		metrics:       m,
		logger:        logger,
		apiKey:        apiKey,
		apiSecret:     apiSecret,
		appURL:        appURL,
		frontendURL:   frontendURL,
		scopes:        scopes,
		sessions:      make(map[string]*domain.Session),
	}
}

// InstallURL returns the install entrypoint for a shop, used both for the
// initial redirect and for the requiresReinstall recovery hint.
func (s *AuthService) InstallURL(shop string) string {
	return fmt.Sprintf("%s/api/auth/install?shop=%s", s.appURL, url.QueryEscape(shop))
}

func (s *AuthService) redirectURI() string {
	return s.appURL + "/api/auth/callback"
}

// BeginInstall normalizes the shop domain, records an OAuth session keyed by
// a fresh state nonce, and returns the Shopify authorize URL to redirect to.
func (s *AuthService) BeginInstall(ctx context.Context, shop string) (string, error) {
	shop = shopifyinfra.NormalizeShopDomain(shop)
	if shop == "" {
		return "", fmt.Errorf("%w: shop parameter is required", domain.ErrValidation)
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	now := time.Now()
	session := &domain.Session{
		Shop:      shop,
		State:     state,
		Scopes:    s.scopes,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionLifetime),
	}

	s.sessionMu.Lock()
	s.sessions[state] = session
	s.sessionMu.Unlock()

	authURL, err := s.client.GenerateAuthURL(shop, s.scopes, s.redirectURI(), state)
	if err != nil {
		return "", fmt.Errorf("failed to generate auth URL: %w", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", s.scopes).
		Msg("Starting OAuth install")

	return authURL, nil
}

// takeSession pops the session for a state nonce; nil if unknown or expired.
func (s *AuthService) takeSession(state string) *domain.Session {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	session, ok := s.sessions[state]
	if !ok {
		return nil
	}
	delete(s.sessions, state)
	if session.Expired(time.Now()) {
		return nil
	}
	return session
}

// CompleteInstall handles the OAuth callback. The HMAC must verify before any
// token exchange is attempted; a failed exchange leaves no partial state. On
// success the access token is stored for the shop (overwriting any prior
// install) and the embedded-app URL is returned for the final redirect.
func (s *AuthService) CompleteInstall(ctx context.Context, query url.Values) (string, error) {
	shop := shopifyinfra.NormalizeShopDomain(query.Get("shop"))
	code := query.Get("code")
	state := query.Get("state")
	if shop == "" || code == "" {
		return "", fmt.Errorf("%w: missing required parameters", domain.ErrValidation)
	}

	session := s.takeSession(state)
	if session == nil || session.Shop != shop {
		return "", fmt.Errorf("%w: invalid or expired OAuth session", domain.ErrAuthentication)
	}

	if !shopifyinfra.VerifyCallbackHMAC(s.apiSecret, query) {
		s.logger.Warn().Str("shop", shop).Msg("OAuth callback HMAC verification failed")
		return "", fmt.Errorf("%w: hmac verification failed", domain.ErrAuthentication)
	}

	accessToken, err := s.client.ExchangeToken(ctx, shop, code, s.redirectURI())
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		return "", fmt.Errorf("%w: token exchange failed: %v", domain.ErrUpstream, err)
	}

	encryptedToken, err := s.encryptionSvc.Encrypt(accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt access token: %w", err)
	}

	if err := s.repository.SaveShop(ctx, &domain.Shop{
		Domain:      shop,
		AccessToken: encryptedToken,
		Scopes:      session.Scopes,
	}); err != nil {
		return "", fmt.Errorf("failed to save shop: %w", err)
	}

	if err := s.tokenStore.Set(ctx, &domain.Token{
		Shop:        shop,
		AccessToken: accessToken,
		IssuedAt:    time.Now(),
	}); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", session.Scopes).
		Msg("OAuth install completed")

	s.subscribeWebhooks(ctx, shop, accessToken)

	return fmt.Sprintf("https://%s/admin/apps/%s", shop, s.apiKey), nil
}

// subscribeWebhooks registers the webhook topics the app relies on. Failures
// are logged, not fatal: an install without webhooks still works, it just
// loses cache invalidation and uninstall detection.
func (s *AuthService) subscribeWebhooks(ctx context.Context, shop, accessToken string) {
	address := s.appURL + "/webhooks/shopify"
	for _, topic := range []string{
		"app/uninstalled",
		"products/update",
		"products/delete",
		"collections/update",
	} {
		if _, err := s.client.CreateWebhook(ctx, shop, accessToken, topic, address); err != nil {
			s.logger.Warn().
				Err(err).
				Str("shop", shop).
				Str("topic", topic).
				Msg("Failed to subscribe webhook")
		}
	}
}

// Resolve returns the tagged credential state for a shop. A token-store miss
// falls back to the encrypted durable record and repopulates the store.
func (s *AuthService) Resolve(ctx context.Context, shop string) domain.TokenState {
	token, err := s.tokenStore.Get(ctx, shop)
	if err != nil {
		return domain.TransientError(fmt.Sprintf("token store unavailable: %v", err))
	}
	if token != nil {
		return domain.ActiveToken(token.AccessToken)
	}

	record, err := s.repository.GetShop(ctx, shop)
	if err != nil {
		return domain.TransientError(fmt.Sprintf("shop lookup failed: %v", err))
	}
	if record == nil || record.AccessToken == "" {
		return domain.NeedsReinstall(s.InstallURL(shop))
	}

	decrypted, err := s.encryptionSvc.Decrypt(record.AccessToken)
	if err != nil {
		return domain.TransientError(fmt.Sprintf("token decryption failed: %v", err))
	}

	// A durable token may have been revoked while it sat unused. Check it
	// against Shopify before trusting it again; network failures pass.
	if s.checker != nil {
		valid, err := s.checker.ValidateToken(ctx, decrypted, shop)
		if err == nil && !valid {
			s.Invalidate(ctx, shop, "revoked")
			return domain.NeedsReinstall(s.InstallURL(shop))
		}
	}

	if err := s.tokenStore.Set(ctx, &domain.Token{
		Shop:        shop,
		AccessToken: decrypted,
		IssuedAt:    record.UpdatedAt,
	}); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Failed to repopulate token store")
	}

	return domain.ActiveToken(decrypted)
}

// HandleAuthError inspects an upstream error. A definitive auth failure
// means the token was revoked server-side: the credential is dropped
// everywhere and the caller gets a NeedsReinstall state. Anything else is
// transient.
func (s *AuthService) HandleAuthError(ctx context.Context, shop string, err error) domain.TokenState {
	if shopifyinfra.IsAuthError(err) {
		s.Invalidate(ctx, shop, "revoked")
		return domain.NeedsReinstall(s.InstallURL(shop))
	}
	return domain.TransientError(err.Error())
}

// Invalidate drops a shop's credential from the token store and the durable
// record. The durable record must go too, or Resolve would resurrect a
// revoked token on the next miss.
func (s *AuthService) Invalidate(ctx context.Context, shop string, reason string) {
	if err := s.tokenStore.Delete(ctx, shop); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete token")
	}
	if err := s.repository.DeleteShop(ctx, shop); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete shop record")
	}
	s.metrics.TokenInvalidations.WithLabelValues(reason).Inc()

	s.logger.Info().
		Str("shop", shop).
		Str("reason", reason).
		Msg("Invalidated shop credential")
}

// Status reports whether a shop is authenticated and lists all connected
// shops.
func (s *AuthService) Status(ctx context.Context, shop string) (bool, []string, error) {
	shops, err := s.repository.ListShops(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("failed to list shops: %w", err)
	}

	allShops := make([]string, 0, len(shops))
	for _, sh := range shops {
		allShops = append(allShops, sh.Domain)
	}

	if shop == "" {
		return false, allShops, nil
	}

	state := s.Resolve(ctx, shopifyinfra.NormalizeShopDomain(shop))
	return state.Kind == domain.TokenActive, allShops, nil
}

// Logout deletes the stored credential for a shop.
func (s *AuthService) Logout(ctx context.Context, shop string) error {
	shop = shopifyinfra.NormalizeShopDomain(shop)
	if shop == "" {
		return fmt.Errorf("%w: shop parameter is required", domain.ErrValidation)
	}
	s.Invalidate(ctx, shop, "logout")
	return nil
}
