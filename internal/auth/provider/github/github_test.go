package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestServer(t *testing.T, emails []githubEmail) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		assert.Equal(t, "verifier-1", r.PostForm.Get("code_verifier"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "gho_token",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(githubUser{ID: 42, Login: "octo"})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(emails)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()

	p, err := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "https://auth.test/oauth/callback/github",
		Endpoint: &oauth2.Endpoint{
			AuthURL:   srv.URL + "/login/oauth/authorize",
			TokenURL:  srv.URL + "/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		APIBaseURL: srv.URL,
	})
	require.NoError(t, err)
	return p
}

func TestExchangeCode(t *testing.T) {
	srv := newTestServer(t, []githubEmail{
		{Email: "alt@example.com", Verified: true},
		{Email: "octo@example.com", Primary: true, Verified: true},
	})
	p := newTestProvider(t, srv)

	identity, err := p.ExchangeCode(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "github", identity.Provider)
	assert.Equal(t, "42", identity.ProviderUserID)
	assert.Equal(t, "octo@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
}

func TestExchangeCodeWithoutPrimaryEmail(t *testing.T) {
	srv := newTestServer(t, []githubEmail{{Email: "alt@example.com"}})
	p := newTestProvider(t, srv)

	_, err := p.ExchangeCode(context.Background(), "code-1", "verifier-1")
	assert.Error(t, err)
}

func TestAuthCodeURL(t *testing.T) {
	p, err := New(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "https://auth.test/cb"})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("state-1", "challenge-1"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
	assert.Equal(t, "github", p.Name())
	assert.Equal(t, "GitHub", p.Label())
}

func TestNewRequiresFields(t *testing.T) {
	_, err := New(Config{ClientID: "id"})
	assert.Error(t, err)
}
