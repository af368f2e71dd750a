package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.PendingSessionTTL)
	assert.Equal(t, 5, cfg.SignInBurst)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "gh-id", cfg.GitHubClientID)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadServerRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SESSION_TTL", "soon")
	_, err := LoadServer()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SIGN_IN_BURST", "0")
	_, err = LoadServer()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, BackendFrontend, cfg.Backend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ExternalTimeout)

	t.Setenv("SIGNIN_BACKEND", "ldap")
	_, err = LoadClient()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
