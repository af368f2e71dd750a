package signin

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultExternalFlowTimeout = 5 * time.Minute
)

// Options tunes the bounds a Form puts on each flow.
type Options struct {
	Timeout             time.Duration
	ExternalFlowTimeout time.Duration
}

func (o Options) normalize() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ExternalFlowTimeout <= 0 {
		o.ExternalFlowTimeout = DefaultExternalFlowTimeout
	}
	return o
}

// Form is the state behind one sign-in screen. It allows a single sign-in
// in flight at a time across the credential and federated paths, and drops
// any response that arrives after its flow was superseded.
type Form struct {
	provider    IdentityProvider
	credentials *CredentialController
	oauth       *OAuthCoordinator
	opts        Options

	mu      sync.Mutex
	fields  FieldState
	gen     uint64
	pending bool
	cancel  context.CancelCauseFunc
	closed  bool
}

func NewForm(provider IdentityProvider, navigator Navigator, opts Options) *Form {
	activator := NewSessionActivator(provider, navigator)
	return &Form{
		provider:    provider,
		credentials: NewCredentialController(provider, activator),
		oauth:       NewOAuthCoordinator(provider, activator),
		opts:        opts.normalize(),
	}
}

// State returns a copy of the current field state.
func (f *Form) State() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.Error
}

func (f *Form) SetIdentifier(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.SetIdentifier(v)
}

func (f *Form) SetSecret(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.SetSecret(v)
}

func (f *Form) ToggleSecretVisible() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.ToggleSecretVisible()
}

// Pending reports whether a sign-in is in flight.
func (f *Form) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Submittable reports whether the credential submit action is enabled.
func (f *Form) Submittable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.pending && !f.closed && IsSubmittable(f.fields, f.provider.Ready())
}

// OAuthEnabled reports whether the federated buttons are enabled. They do
// not depend on the credential fields.
func (f *Form) OAuthEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.pending && !f.closed && f.provider.Ready()
}

// Providers returns the federated providers to render.
func (f *Form) Providers() []OAuthProvider {
	return OAuthProviders()
}

// Submit runs a credential sign-in with the current field values. It is a
// no-op while another flow is pending or the fields are incomplete.
func (f *Form) Submit(ctx context.Context) Result {
	f.mu.Lock()
	if !IsSubmittable(f.fields, f.provider.Ready()) {
		f.mu.Unlock()
		return ResultNone
	}
	creds := f.fields.credentials()
	f.mu.Unlock()

	return f.run(ctx, f.opts.Timeout, func(ctx context.Context) (Result, error) {
		return f.credentials.Submit(ctx, creds)
	})
}

// Initiate runs the federated flow for strategy.
func (f *Form) Initiate(ctx context.Context, strategy Strategy) Result {
	return f.run(ctx, f.opts.ExternalFlowTimeout, func(ctx context.Context) (Result, error) {
		return f.oauth.Initiate(ctx, strategy)
	})
}

// Cancel supersedes the pending flow, if any. Its response will be ignored.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supersedeLocked()
}

// Close discards the form. Pending responses are ignored and later calls
// are no-ops.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supersedeLocked()
	f.closed = true
}

func (f *Form) supersedeLocked() {
	if f.cancel != nil {
		f.cancel(ErrSuperseded)
		f.cancel = nil
	}
	f.gen++
	f.pending = false
}

func (f *Form) run(parent context.Context, timeout time.Duration, op func(context.Context) (Result, error)) Result {
	f.mu.Lock()
	if f.pending || f.closed {
		f.mu.Unlock()
		return ResultNone
	}
	ctx, cancel := context.WithCancelCause(parent)
	f.gen++
	gen := f.gen
	f.pending = true
	f.cancel = cancel
	f.mu.Unlock()

	timed, stop := context.WithTimeoutCause(ctx, timeout, ErrTimedOut)
	defer stop()

	res, err := op(timed)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// superseded; Cancel already released the guard
		return ResultNone
	}
	cancel(nil)
	f.cancel = nil
	f.pending = false
	if err != nil {
		f.fields.Error = ErrorMessage(err)
	} else {
		f.fields.Error = ""
	}
	return res
}
