package signin

import (
	"context"
	"errors"
	"fmt"
)

const (
	MessageIncomplete = "Sign-in was not completed. Please try again."
	MessageFallback   = "An unexpected error occurred."
	MessageTimeout    = "Sign-in timed out. Please try again."
)

var (
	// ErrSuperseded is the cancellation cause for a flow whose form moved on
	// (cancelled, closed, or replaced) before the response arrived.
	ErrSuperseded = errors.New("signin: flow superseded")

	// ErrTimedOut is the cancellation cause once a flow exceeds its bound.
	ErrTimedOut = errors.New("signin: flow timed out")

	ErrMissingSession  = errors.New("signin: completed attempt carries no session id")
	ErrUnknownStrategy = errors.New("signin: unknown oauth strategy")
)

// Kind classifies a failed sign-in for callers that need more than the
// display string.
type Kind int

const (
	KindTransport Kind = iota
	KindIncomplete
	KindProvider
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindIncomplete:
		return "incomplete"
	case KindProvider:
		return "provider"
	case KindTimeout:
		return "timeout"
	default:
		return "transport"
	}
}

// AuthError is the single failure shape returned to the presentation layer.
// Message is always non-empty and safe to show to the user.
type AuthError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signin: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("signin: %s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ErrorEntry is one structured error reported by the identity provider.
type ErrorEntry struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	LongMessage string `json:"long_message,omitempty"`
}

// ProviderError is a rejection from the identity provider carrying its
// structured error list.
type ProviderError struct {
	StatusCode int
	Errors     []ErrorEntry
}

func (e *ProviderError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("identity provider error (status %d)", e.StatusCode)
	}
	first := e.Errors[0]
	return fmt.Sprintf("identity provider error (status %d): %s: %s", e.StatusCode, first.Code, first.Message)
}

// ErrorMessage reduces any failure to one user-facing string. It never
// returns an empty string.
func ErrorMessage(err error) string {
	if err == nil {
		return MessageFallback
	}

	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) && len(provErr.Errors) > 0 && provErr.Errors[0].Message != "" {
		return provErr.Errors[0].Message
	}

	return MessageFallback
}

// classify wraps a failure from the provider into an AuthError.
func classify(ctx context.Context, err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var provErr *ProviderError
	switch {
	case timedOut(ctx, err):
		return &AuthError{Kind: KindTimeout, Message: MessageTimeout, Err: err}
	case errors.As(err, &provErr):
		return &AuthError{Kind: KindProvider, Message: ErrorMessage(err), Err: err}
	default:
		return &AuthError{Kind: KindTransport, Message: ErrorMessage(err), Err: err}
	}
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(context.Cause(ctx), ErrTimedOut) ||
		errors.Is(err, ErrTimedOut) ||
		errors.Is(err, context.DeadlineExceeded)
}

func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
