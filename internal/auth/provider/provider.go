package provider

import (
	"context"

	"reps-auth/internal/auth"
)

// OAuthProvider is one federated sign-in strategy the service can redirect
// to. It reports identity facts only; users and sessions are decided by the
// caller.
type OAuthProvider interface {
	// Name is the registry key and the :provider route segment.
	Name() string

	// Label is the display name used in user-facing messages.
	Label() string

	// AuthCodeURL builds the authorization redirect. The S256 challenge of
	// the caller's PKCE verifier is sent alongside state.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems the callback code with the matching verifier.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
