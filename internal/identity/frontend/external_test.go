package frontend

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"reps-auth/internal/signin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrowser plays the user's browser: it checks the login URL and then
// follows the service's final redirect to the loopback listener.
func fakeBrowser(t *testing.T, wantProvider string, outcome url.Values, repeat int) func(string) error {
	return func(loginURL string) error {
		u, err := url.Parse(loginURL)
		require.NoError(t, err)
		assert.Equal(t, "/oauth/login/"+wantProvider, u.Path)

		redirect, err := url.Parse(u.Query().Get("redirect_url"))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", redirect.Hostname())
		redirect.RawQuery = outcome.Encode()

		go func() {
			for range repeat {
				resp, err := http.Get(redirect.String())
				if err == nil {
					resp.Body.Close()
				}
			}
		}()
		return nil
	}
}

func TestBeginExternalFlowComplete(t *testing.T) {
	c := New(Config{
		BaseURL:     "http://auth.test",
		OpenBrowser: fakeBrowser(t, "google", url.Values{"status": {"complete"}, "created_session_id": {"sess_g"}}, 2),
	})

	res, err := c.BeginExternalFlow(context.Background(), signin.StrategyGoogle)

	require.NoError(t, err)
	assert.Equal(t, &signin.ExternalFlowResult{SessionID: "sess_g"}, res)
}

func TestBeginExternalFlowCancelled(t *testing.T) {
	c := New(Config{
		BaseURL:     "http://auth.test",
		OpenBrowser: fakeBrowser(t, "github", url.Values{"status": {"cancelled"}}, 1),
	})

	res, err := c.BeginExternalFlow(context.Background(), signin.StrategyGitHub)

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
}

func TestBeginExternalFlowFailed(t *testing.T) {
	c := New(Config{
		BaseURL:     "http://auth.test",
		OpenBrowser: fakeBrowser(t, "github", url.Values{"status": {"failed"}, "error": {"Sign-in with GitHub failed."}}, 1),
	})

	_, err := c.BeginExternalFlow(context.Background(), signin.StrategyGitHub)

	var provErr *signin.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Sign-in with GitHub failed.", signin.ErrorMessage(err))
}

func TestBeginExternalFlowContextEnds(t *testing.T) {
	c := New(Config{
		BaseURL:     "http://auth.test",
		OpenBrowser: func(string) error { return nil },
	})

	ctx, cancel := context.WithTimeoutCause(context.Background(), 20*time.Millisecond, signin.ErrTimedOut)
	defer cancel()

	_, err := c.BeginExternalFlow(ctx, signin.StrategyGoogle)
	assert.ErrorIs(t, err, signin.ErrTimedOut)
}

func TestParseCallback(t *testing.T) {
	out := parseCallback(url.Values{"status": {"complete"}})
	assert.ErrorIs(t, out.err, errUnexpectedCallback)

	out = parseCallback(url.Values{})
	assert.ErrorIs(t, out.err, errUnexpectedCallback)

	out = parseCallback(url.Values{"status": {"failed"}})
	assert.Equal(t, signin.MessageFallback, signin.ErrorMessage(out.err))
}
