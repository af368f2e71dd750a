// Package kratos signs users in against an Ory Kratos public API using the
// native (API) login flow.
package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"reps-auth/internal/logger"
	"reps-auth/internal/signin"

	kratosclient "github.com/ory/kratos-client-go"
)

const methodPassword = "password"

type Config struct {
	PublicURL  string
	HTTPClient *http.Client
}

// Adapter implements signin.IdentityProvider on top of Kratos. Kratos hands
// out a session token with each login. The adapter holds the token of the
// latest completed attempt until it is activated, and the token of the
// current session after that.
type Adapter struct {
	api   *kratosclient.APIClient
	ready atomic.Bool

	mu      sync.Mutex
	pending sessionToken
	current sessionToken
}

type sessionToken struct {
	id    string
	token string
}

var _ signin.IdentityProvider = (*Adapter)(nil)

func New(cfg Config) *Adapter {
	conf := kratosclient.NewConfiguration()
	conf.Servers = []kratosclient.ServerConfiguration{
		{URL: strings.TrimRight(cfg.PublicURL, "/")},
	}
	if cfg.HTTPClient != nil {
		conf.HTTPClient = cfg.HTTPClient
	}
	conf.DefaultHeader = map[string]string{"Accept": "application/json"}

	return &Adapter{api: kratosclient.NewAPIClient(conf)}
}

// Init probes Kratos once and marks the adapter ready when it answers.
func (a *Adapter) Init(ctx context.Context) error {
	_, httpResp, err := a.api.MetadataAPI.IsReady(ctx).Execute()
	if err != nil {
		return fmt.Errorf("kratos: readiness probe (status %d): %w", statusOf(httpResp), err)
	}

	a.ready.Store(true)
	logger.Debug("kratos ready", nil)
	return nil
}

func (a *Adapter) Ready() bool {
	return a.ready.Load()
}

// CreateAttempt runs a whole native login flow: create the flow, submit
// the password method, then confirm the session's assurance level.
func (a *Adapter) CreateAttempt(ctx context.Context, creds signin.Credentials) (*signin.Attempt, error) {
	switch {
	case strings.TrimSpace(creds.Identifier) == "":
		return &signin.Attempt{Status: signin.StatusNeedsIdentifier}, nil
	case creds.Secret == "":
		return &signin.Attempt{Status: signin.StatusNeedsFirstFactor}, nil
	}

	flow, httpResp, err := a.api.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, translateError(err, httpResp)
	}

	attempt := &signin.Attempt{ID: flow.GetId()}

	body := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Identifier: strings.TrimSpace(creds.Identifier),
		Password:   creds.Secret,
		Method:     methodPassword,
	}

	login, httpResp, err := a.api.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.GetId()).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		if errorID(err) == errIDAAL2Required {
			attempt.Status = signin.StatusNeedsSecondFactor
			return attempt, nil
		}
		return nil, translateError(err, httpResp)
	}

	token := login.GetSessionToken()
	sess := login.GetSession()

	// A password login on an account with a second factor yields an aal1
	// session that whoami refuses.
	if _, httpResp, err := a.api.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute(); err != nil {
		if errorID(err) == errIDAAL2Required {
			attempt.Status = signin.StatusNeedsSecondFactor
			return attempt, nil
		}
		return nil, translateError(err, httpResp)
	}

	// a newer attempt replaces one that was never activated
	a.mu.Lock()
	a.pending = sessionToken{id: sess.GetId(), token: token}
	a.mu.Unlock()

	attempt.Status = signin.StatusComplete
	attempt.CreatedSessionID = sess.GetId()
	return attempt, nil
}

// ActivateSession re-checks the session with Kratos and makes it current.
// Activating the current session again is allowed.
func (a *Adapter) ActivateSession(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	var token string
	switch sessionID {
	case "":
	case a.pending.id:
		token = a.pending.token
	case a.current.id:
		token = a.current.token
	}
	a.mu.Unlock()
	if token == "" {
		return sessionNotFound()
	}

	sess, httpResp, err := a.api.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	if err != nil {
		return translateError(err, httpResp)
	}
	if sess.GetId() != sessionID || !sess.GetActive() {
		return sessionNotFound()
	}

	a.mu.Lock()
	a.current = sessionToken{id: sessionID, token: token}
	if a.pending.id == sessionID {
		a.pending = sessionToken{}
	}
	a.mu.Unlock()
	return nil
}

// SessionID returns the active session, or "" before activation.
func (a *Adapter) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.id
}

// BeginExternalFlow is not offered: Kratos OIDC needs a browser flow this
// adapter does not drive.
func (a *Adapter) BeginExternalFlow(ctx context.Context, strategy signin.Strategy) (*signin.ExternalFlowResult, error) {
	label := strategy.ProviderName()
	for _, p := range signin.OAuthProviders() {
		if p.Strategy == strategy {
			label = p.Label
		}
	}

	return nil, &signin.ProviderError{
		StatusCode: http.StatusNotImplemented,
		Errors: []signin.ErrorEntry{{
			Code:    codeStrategyUnavailable,
			Message: "Sign-in with " + label + " is not available.",
		}},
	}
}

func sessionNotFound() error {
	return &signin.ProviderError{
		StatusCode: http.StatusNotFound,
		Errors:     []signin.ErrorEntry{{Code: codeSessionNotFound, Message: "Session not found."}},
	}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// errorID returns Kratos' machine-readable error id from err, if any.
func errorID(err error) string {
	var apiErr *kratosclient.GenericOpenAPIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	body, ok := parseErrorBody(apiErr.Body())
	if !ok || body.Error == nil {
		return ""
	}
	return body.Error.ID
}
