// Package frontend talks to the reps-auth HTTP API on behalf of a native
// sign-in client.
package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"reps-auth/internal/logger"
	"reps-auth/internal/signin"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL string

	// CallbackHost and CallbackPort bind the loopback listener used by
	// federated flows. Port 0 picks a free port.
	CallbackHost string
	CallbackPort int

	// HTTPClient defaults to a client without a timeout; deadlines come
	// from the caller's context.
	HTTPClient *http.Client

	// OpenBrowser defaults to the platform's URL opener.
	OpenBrowser func(url string) error
}

// Client implements signin.IdentityProvider against the HTTP API and keeps
// the session it activated.
type Client struct {
	baseURL      string
	http         *http.Client
	callbackHost string
	callbackPort int
	openBrowser  func(string) error

	ready atomic.Bool

	mu        sync.Mutex
	sessionID string
}

var _ signin.IdentityProvider = (*Client)(nil)

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	open := cfg.OpenBrowser
	if open == nil {
		open = OpenBrowser
	}
	host := cfg.CallbackHost
	if host == "" {
		host = "127.0.0.1"
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         httpClient,
		callbackHost: host,
		callbackPort: cfg.CallbackPort,
		openBrowser:  open,
	}
}

// Init probes the service and marks the client ready once it answers.
func (c *Client) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("frontend: health check: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("frontend: health check returned status %d", resp.StatusCode)
	}

	c.ready.Store(true)
	logger.Debug("identity provider ready", map[string]any{
		"base_url": c.baseURL,
	})
	return nil
}

func (c *Client) Ready() bool {
	return c.ready.Load()
}

type signInBody struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (c *Client) CreateAttempt(ctx context.Context, creds signin.Credentials) (*signin.Attempt, error) {
	var attempt signin.Attempt
	err := c.doJSON(ctx, http.MethodPost, "/v1/client/sign_ins", "", signInBody{
		Identifier: creds.Identifier,
		Password:   creds.Secret,
	}, &attempt)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

type activateBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ActivateSession makes sessionID the client's current session.
func (c *Client) ActivateSession(ctx context.Context, sessionID string) error {
	var out activateBody
	path := "/v1/client/sessions/" + url.PathEscape(sessionID) + "/activate"
	if err := c.doJSON(ctx, http.MethodPost, path, "", nil, &out); err != nil {
		return err
	}

	c.mu.Lock()
	c.sessionID = out.ID
	c.mu.Unlock()
	return nil
}

// SessionID returns the active session, or "" before activation.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

type meBody struct {
	UserID string `json:"user_id"`
}

// Me returns the user behind the active session.
func (c *Client) Me(ctx context.Context) (string, error) {
	var out meBody
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", c.SessionID(), nil, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// SignOut ends the active session on the server and forgets it locally.
func (c *Client) SignOut(ctx context.Context) error {
	sessionID := c.SessionID()
	if sessionID == "" {
		return nil
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/logout", sessionID, nil, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.sessionID = ""
	c.mu.Unlock()
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("frontend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("frontend: decode %s response: %w", path, err)
	}
	return nil
}

type errorEnvelope struct {
	Errors []signin.ErrorEntry `json:"errors"`
}

// decodeError turns a non-2xx response into a ProviderError. A body that
// is not an error envelope yields a ProviderError with no entries.
func decodeError(resp *http.Response) error {
	provErr := &signin.ProviderError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return provErr
	}

	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil {
		provErr.Errors = env.Errors
	}
	return provErr
}
