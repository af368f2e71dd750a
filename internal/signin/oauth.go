package signin

import (
	"context"
	"errors"

	"reps-auth/internal/logger"
)

// OAuthCoordinator drives a federated sign-in for one provider button press.
type OAuthCoordinator struct {
	provider  IdentityProvider
	activator *SessionActivator
}

func NewOAuthCoordinator(provider IdentityProvider, activator *SessionActivator) *OAuthCoordinator {
	return &OAuthCoordinator{
		provider:  provider,
		activator: activator,
	}
}

// Initiate runs the external flow for strategy. A user abort, including
// cancellation of ctx, ends with ResultNone and no error.
func (o *OAuthCoordinator) Initiate(ctx context.Context, strategy Strategy) (Result, error) {
	if !o.provider.Ready() {
		return ResultNone, nil
	}

	if _, ok := lookupProvider(strategy); !ok {
		logger.Error("unknown oauth strategy", map[string]any{
			"strategy": string(strategy),
		})
		return ResultNone, &AuthError{Kind: KindTransport, Message: MessageFallback, Err: ErrUnknownStrategy}
	}

	res, err := o.provider.BeginExternalFlow(ctx, strategy)
	if superseded(ctx) || userCancelled(ctx, err) {
		logger.Info("oauth flow cancelled", map[string]any{
			"strategy": string(strategy),
		})
		return ResultNone, nil
	}
	if err != nil {
		authErr := classify(ctx, err)
		logger.Error("oauth flow failed", map[string]any{
			"strategy": string(strategy),
			"kind":     authErr.Kind.String(),
			"error":    err.Error(),
		})
		return ResultNone, authErr
	}
	if res == nil || res.Cancelled {
		logger.Info("oauth flow cancelled", map[string]any{
			"strategy": string(strategy),
		})
		return ResultNone, nil
	}

	logger.Info("oauth flow completed", map[string]any{
		"strategy":   string(strategy),
		"session_id": res.SessionID,
	})

	if err := o.activator.Activate(ctx, res.SessionID); err != nil {
		if superseded(ctx) {
			return ResultNone, nil
		}
		authErr := classify(ctx, err)
		logger.Error("session activation failed", map[string]any{
			"strategy": string(strategy),
			"error":    err.Error(),
		})
		return ResultNone, authErr
	}

	return ResultAuthenticated, nil
}

// userCancelled separates an abort by the caller from a timeout.
func userCancelled(ctx context.Context, err error) bool {
	if timedOut(ctx, err) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}
