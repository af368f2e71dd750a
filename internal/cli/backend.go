package cli

import (
	"context"
	"fmt"

	"reps-auth/internal/config"
	"reps-auth/internal/identity/frontend"
	"reps-auth/internal/identity/kratos"
	"reps-auth/internal/signin"
)

// Backend is an identity provider the CLI can initialize and ask for the
// session it ended up with.
type Backend interface {
	signin.IdentityProvider
	Init(ctx context.Context) error
	SessionID() string
}

// userLookup is implemented by backends that can name the signed-in user.
type userLookup interface {
	Me(ctx context.Context) (string, error)
}

type BackendFactory func(cfg config.Client) (Backend, error)

// NewBackend builds the backend selected by cfg.Backend.
func NewBackend(cfg config.Client) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFrontend:
		return frontend.New(frontend.Config{
			BaseURL:      cfg.BaseURL,
			CallbackHost: cfg.CallbackHost,
			CallbackPort: cfg.CallbackPort,
		}), nil
	case config.BackendKratos:
		return kratos.New(kratos.Config{PublicURL: cfg.KratosPublicURL}), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}
