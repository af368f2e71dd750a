package signin

import "context"

// IdentityProvider is the remote service that verifies credentials and
// issues sessions. Implementations own all session state; the sign-in core
// only ever handles session IDs.
type IdentityProvider interface {
	// Ready reports whether the client has finished initializing.
	Ready() bool

	// CreateAttempt submits credentials and returns the provider's attempt.
	CreateAttempt(ctx context.Context, creds Credentials) (*Attempt, error)

	// ActivateSession makes the given session the current one.
	ActivateSession(ctx context.Context, sessionID string) error

	// BeginExternalFlow runs a redirect-based federated flow to completion.
	// A user abort is reported as a result with Cancelled set, not an error.
	BeginExternalFlow(ctx context.Context, strategy Strategy) (*ExternalFlowResult, error)
}

// Navigator moves the application into its authenticated area.
type Navigator interface {
	GoToAuthenticatedRoot(ctx context.Context)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) GoToAuthenticatedRoot(ctx context.Context) { f(ctx) }
