package handler

import (
	"context"
	"time"

	"reps-auth/internal/auth/credentials"
	"reps-auth/internal/auth/provider"
	"reps-auth/internal/auth/resolver"
	"reps-auth/internal/logger"
	"reps-auth/internal/session"

	"github.com/gin-gonic/gin"
)

// Authenticator checks a password credential.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*credentials.Account, error)
}

type Options struct {
	SessionTTL        time.Duration
	PendingSessionTTL time.Duration
	// SecureCookies marks every cookie Secure. Off only for plain-http
	// development servers.
	SecureCookies bool
}

type Handler struct {
	providers     *provider.Registry
	sessionStore  session.Store
	resolver      resolver.Resolver
	authenticator Authenticator
	opts          Options
	now           func() time.Time
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	authenticator Authenticator,
	opts Options,
) *Handler {
	return &Handler{
		providers:     registry,
		sessionStore:  sessionStore,
		resolver:      resolver,
		authenticator: authenticator,
		opts:          opts,
		now:           time.Now,
	}
}

// Middleware carries the guards RegisterRoutes attaches to its routes.
type Middleware struct {
	SignInLimit gin.HandlerFunc
	RequireAuth gin.HandlerFunc
}

func (h *Handler) RegisterRoutes(r *gin.Engine, mw Middleware) {
	client := r.Group("/v1/client")
	client.POST("/sign_ins", mw.SignInLimit, h.createSignIn)
	client.POST("/sessions/:id/activate", h.activateSession)

	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
	r.POST("/auth/logout", h.Logout)

	r.GET("/v1/me", mw.RequireAuth, h.me)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

func (h *Handler) cookieOptions() session.CookieOptions {
	return session.CookieOptions{Secure: h.opts.SecureCookies}
}

// createPendingSession stores a session that the client must activate
// before it authorizes anything.
func (h *Handler) createPendingSession(ctx context.Context, userID string) (string, error) {
	sessionID, err := session.GenerateID()
	if err != nil {
		return "", err
	}

	sess := session.NewPending(sessionID, userID, h.now(), h.opts.PendingSessionTTL, h.opts.SessionTTL)
	if err := h.sessionStore.Create(ctx, sess); err != nil {
		return "", err
	}
	return sessionID, nil
}
