package domain

// TokenStateKind discriminates the possible outcomes of resolving a shop's
// credential. Callers branch on a closed set instead of ad hoc flags.
type TokenStateKind int

const (
	// TokenActive means a usable access token is available.
	TokenActive TokenStateKind = iota
	// TokenNeedsReinstall means no valid token exists (never installed,
	// expired, or revoked upstream); the only recovery is a full re-install.
	TokenNeedsReinstall
	// TokenTransientError means the credential could not be resolved right
	// now (store unavailable, decryption failure); retrying may succeed.
	TokenTransientError
)

// TokenState is the tagged result of resolving a shop's access token.
type TokenState struct {
	Kind        TokenStateKind
	AccessToken string // set when Kind == TokenActive
	RedirectURL string // set when Kind == TokenNeedsReinstall
	Reason      string // set when Kind == TokenTransientError
}

// ActiveToken constructs an Active state.
func ActiveToken(token string) TokenState {
	return TokenState{Kind: TokenActive, AccessToken: token}
}

// NeedsReinstall constructs a NeedsReinstall state carrying the ready-to-use
// install redirect for the shop.
func NeedsReinstall(redirectURL string) TokenState {
	return TokenState{Kind: TokenNeedsReinstall, RedirectURL: redirectURL}
}

// TransientError constructs a TransientError state.
func TransientError(reason string) TokenState {
	return TokenState{Kind: TokenTransientError, Reason: reason}
}
