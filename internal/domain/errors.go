package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the application error taxonomy. Infrastructure and
// application code wrap these with %w; the HTTP layer translates them into
// status codes.
var (
	// ErrValidation marks malformed or missing request parameters (400).
	ErrValidation = errors.New("validation error")
	// ErrAuthentication marks a missing, invalid, or revoked credential, or
	// an HMAC mismatch (401).
	ErrAuthentication = errors.New("authentication error")
	// ErrAuthorization marks missing scopes or plan limits (403).
	ErrAuthorization = errors.New("authorization error")
	// ErrNotFound marks a missing resource (404).
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a Shopify or AI provider failure (502).
	ErrUpstream = errors.New("upstream error")
)

// ReinstallRequiredError signals that a shop has no usable credential and
// must go through the OAuth install again. It unwraps to ErrAuthentication so
// generic error mapping still yields a 401; the HTTP layer additionally
// surfaces the redirect URL.
type ReinstallRequiredError struct {
	Shop        string
	RedirectURL string
}

func (e *ReinstallRequiredError) Error() string {
	return "shop " + e.Shop + " requires reinstall"
}

func (e *ReinstallRequiredError) Unwrap() error {
	return ErrAuthentication
}

// StateError converts a non-active TokenState into the matching error.
func StateError(shop string, state TokenState) error {
	switch state.Kind {
	case TokenNeedsReinstall:
		return &ReinstallRequiredError{Shop: shop, RedirectURL: state.RedirectURL}
	case TokenTransientError:
		return fmt.Errorf("%w: %s", ErrUpstream, state.Reason)
	default:
		return nil
	}
}
