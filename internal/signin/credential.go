package signin

import (
	"context"

	"reps-auth/internal/logger"
)

// Result is the non-error outcome of a sign-in operation.
type Result int

const (
	// ResultNone means nothing happened: the provider was not ready, the
	// flow was cancelled, or its response was superseded.
	ResultNone Result = iota
	ResultAuthenticated
)

func (r Result) String() string {
	if r == ResultAuthenticated {
		return "authenticated"
	}
	return "none"
}

// CredentialController drives one identifier + secret sign-in attempt.
type CredentialController struct {
	provider  IdentityProvider
	activator *SessionActivator
}

func NewCredentialController(provider IdentityProvider, activator *SessionActivator) *CredentialController {
	return &CredentialController{
		provider:  provider,
		activator: activator,
	}
}

// Submit creates an attempt and, if the provider reports it complete,
// activates its session. Failures come back as *AuthError. There is no
// automatic retry.
func (c *CredentialController) Submit(ctx context.Context, creds Credentials) (Result, error) {
	if !c.provider.Ready() {
		return ResultNone, nil
	}

	attempt, err := c.provider.CreateAttempt(ctx, creds)
	if superseded(ctx) {
		logger.Debug("sign-in response ignored", map[string]any{
			"credentials": creds.logFields(),
		})
		return ResultNone, nil
	}
	if err != nil {
		authErr := classify(ctx, err)
		logger.Error("sign-in attempt failed", map[string]any{
			"credentials": creds.logFields(),
			"kind":        authErr.Kind.String(),
			"error":       err.Error(),
		})
		return ResultNone, authErr
	}
	if attempt == nil {
		logger.Error("sign-in attempt missing from provider response", nil)
		return ResultNone, &AuthError{Kind: KindTransport, Message: MessageFallback}
	}

	if attempt.Status != StatusComplete {
		logger.Error("sign-in attempt not completed", map[string]any{
			"attempt": attempt,
		})
		return ResultNone, &AuthError{Kind: KindIncomplete, Message: MessageIncomplete}
	}

	logger.Info("sign-in attempt completed", map[string]any{
		"attempt": attempt,
	})

	if err := c.activator.Activate(ctx, attempt.CreatedSessionID); err != nil {
		if superseded(ctx) {
			return ResultNone, nil
		}
		authErr := classify(ctx, err)
		logger.Error("session activation failed", map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})
		return ResultNone, authErr
	}

	return ResultAuthenticated, nil
}
