package resolver

import (
	"context"
	"errors"

	"reps-auth/internal/auth"
)

var (
	ErrNilIdentity = errors.New("identity is nil")
	// ErrUnverifiedEmail blocks linking a federated identity to an existing
	// account by an address the provider has not verified.
	ErrUnverifiedEmail = errors.New("identity email not verified")
)

// Resolver maps a federated identity to the internal user it signs in as,
// creating or linking the user when needed.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (userID string, err error)
}
