package signin

import (
	"context"
	"fmt"

	"reps-auth/internal/logger"
)

// SessionActivator is the terminal step shared by every sign-in path.
type SessionActivator struct {
	provider  IdentityProvider
	navigator Navigator
}

func NewSessionActivator(provider IdentityProvider, navigator Navigator) *SessionActivator {
	return &SessionActivator{
		provider:  provider,
		navigator: navigator,
	}
}

// Activate establishes the session with the provider, then navigates to the
// authenticated root. Navigation never happens if activation fails.
func (a *SessionActivator) Activate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSession
	}

	if err := a.provider.ActivateSession(ctx, sessionID); err != nil {
		return fmt.Errorf("activate session: %w", err)
	}

	// the form may have been closed while activation was in flight
	if superseded(ctx) {
		return context.Cause(ctx)
	}

	logger.Info("session activated", map[string]any{
		"session_id": sessionID,
	})

	a.navigator.GoToAuthenticatedRoot(ctx)
	return nil
}
