package kratos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"reps-auth/internal/logger"
	"reps-auth/internal/signin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeKratos serves the handful of public endpoints the adapter uses.
// Passwords select the scenario.
type fakeKratos struct {
	aal2Token string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func loginFlow(messages ...map[string]any) map[string]any {
	now := time.Now().UTC()
	if messages == nil {
		messages = []map[string]any{}
	}
	return map[string]any{
		"id":          "flow-1",
		"type":        "api",
		"state":       "choose_method",
		"request_url": "http://kratos.test/self-service/login/api",
		"issued_at":   now.Format(time.RFC3339),
		"expires_at":  now.Add(time.Hour).Format(time.RFC3339),
		"ui": map[string]any{
			"action":   "http://kratos.test/self-service/login?flow=flow-1",
			"method":   "POST",
			"nodes":    []any{},
			"messages": messages,
		},
	}
}

func (f *fakeKratos) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	mux.HandleFunc("GET /self-service/login/api", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, loginFlow())
	})

	mux.HandleFunc("POST /self-service/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "flow-1", r.URL.Query().Get("flow"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "password", body["method"])

		switch body["password"] {
		case "hunter22":
			writeJSON(w, http.StatusOK, map[string]any{
				"session":       map[string]any{"id": "ks-1", "active": true},
				"session_token": "tok-1",
			})
		case "hunter33":
			writeJSON(w, http.StatusOK, map[string]any{
				"session":       map[string]any{"id": "ks-3", "active": true},
				"session_token": "tok-3",
			})
		case "mfa-user":
			writeJSON(w, http.StatusOK, map[string]any{
				"session":       map[string]any{"id": "ks-2", "active": true},
				"session_token": f.aal2Token,
			})
		default:
			writeJSON(w, http.StatusBadRequest, loginFlow(map[string]any{
				"id":   4000006,
				"text": "The provided credentials are invalid, check for spelling mistakes in your password or username, email address, or phone number.",
				"type": "error",
			}))
		}
	})

	mux.HandleFunc("GET /sessions/whoami", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Session-Token") {
		case "tok-1":
			writeJSON(w, http.StatusOK, map[string]any{"id": "ks-1", "active": true})
		case "tok-3":
			writeJSON(w, http.StatusOK, map[string]any{"id": "ks-3", "active": true})
		case f.aal2Token:
			writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{
				"id":      "session_aal2_required",
				"code":    403,
				"message": "Session does not fulfill the requested authenticator assurance level",
				"reason":  "A higher assurance level is required.",
			}})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{
				"id":      "session_inactive",
				"code":    401,
				"message": "No valid session credentials found in the request.",
			}})
		}
	})

	return mux
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	srv := httptest.NewServer((&fakeKratos{aal2Token: "tok-aal1"}).handler(t))
	t.Cleanup(srv.Close)

	return New(Config{PublicURL: srv.URL + "/"})
}

func TestInit(t *testing.T) {
	a := newTestAdapter(t)
	assert.False(t, a.Ready())

	require.NoError(t, a.Init(context.Background()))
	assert.True(t, a.Ready())
}

func TestCreateAttemptComplete(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	attempt, err := a.CreateAttempt(ctx, signin.Credentials{Identifier: "a@example.com", Secret: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, &signin.Attempt{ID: "flow-1", Status: signin.StatusComplete, CreatedSessionID: "ks-1"}, attempt)

	require.NoError(t, a.ActivateSession(ctx, "ks-1"))
	assert.Equal(t, "ks-1", a.SessionID())
}

func TestNewerAttemptReplacesPendingToken(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.CreateAttempt(ctx, signin.Credentials{Identifier: "a@example.com", Secret: "hunter22"})
	require.NoError(t, err)
	_, err = a.CreateAttempt(ctx, signin.Credentials{Identifier: "a@example.com", Secret: "hunter33"})
	require.NoError(t, err)

	var provErr *signin.ProviderError
	require.ErrorAs(t, a.ActivateSession(ctx, "ks-1"), &provErr)
	assert.Equal(t, http.StatusNotFound, provErr.StatusCode)

	require.NoError(t, a.ActivateSession(ctx, "ks-3"))
	assert.Equal(t, sessionToken{}, a.pending)
	assert.Equal(t, "ks-3", a.SessionID())

	// the current session stays activatable
	require.NoError(t, a.ActivateSession(ctx, "ks-3"))
}

func TestCreateAttemptSecondFactor(t *testing.T) {
	a := newTestAdapter(t)

	attempt, err := a.CreateAttempt(context.Background(), signin.Credentials{Identifier: "a@example.com", Secret: "mfa-user"})

	require.NoError(t, err)
	assert.Equal(t, signin.StatusNeedsSecondFactor, attempt.Status)
	assert.Empty(t, attempt.CreatedSessionID)
}

func TestCreateAttemptInvalidCredentials(t *testing.T) {
	a := newTestAdapter(t)

	_, err := a.CreateAttempt(context.Background(), signin.Credentials{Identifier: "a@example.com", Secret: "wrong-pass"})

	var provErr *signin.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.StatusCode)
	require.NotEmpty(t, provErr.Errors)
	assert.Equal(t, "kratos_4000006", provErr.Errors[0].Code)
	assert.Contains(t, signin.ErrorMessage(err), "credentials are invalid")
}

func TestCreateAttemptMissingFields(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	attempt, err := a.CreateAttempt(ctx, signin.Credentials{Secret: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, signin.StatusNeedsIdentifier, attempt.Status)

	attempt, err = a.CreateAttempt(ctx, signin.Credentials{Identifier: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, signin.StatusNeedsFirstFactor, attempt.Status)
}

func TestActivateUnknownSession(t *testing.T) {
	a := newTestAdapter(t)

	err := a.ActivateSession(context.Background(), "ks-404")

	assert.Equal(t, "Session not found.", signin.ErrorMessage(err))
	assert.Empty(t, a.SessionID())
}

func TestBeginExternalFlowUnavailable(t *testing.T) {
	a := newTestAdapter(t)

	_, err := a.BeginExternalFlow(context.Background(), signin.StrategyGitHub)

	assert.Equal(t, "Sign-in with GitHub is not available.", signin.ErrorMessage(err))
}

func TestTranslateErrorPassesTransportErrors(t *testing.T) {
	a := New(Config{PublicURL: "http://127.0.0.1:1"})

	_, err := a.CreateAttempt(context.Background(), signin.Credentials{Identifier: "a", Secret: "b"})

	require.Error(t, err)
	var provErr *signin.ProviderError
	assert.NotErrorAs(t, err, &provErr)
	assert.Equal(t, signin.MessageFallback, signin.ErrorMessage(err))
}

func TestParseErrorBody(t *testing.T) {
	_, ok := parseErrorBody(nil)
	assert.False(t, ok)

	_, ok = parseErrorBody([]byte("<html>"))
	assert.False(t, ok)

	body, ok := parseErrorBody([]byte(`{"error":{"id":"session_aal2_required","message":"m"}}`))
	require.True(t, ok)
	assert.Equal(t, "session_aal2_required", body.Error.ID)
}
