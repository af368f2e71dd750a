package app

import (
	"context"
	"net/http"
	"strings"

	"reps-auth/internal/auth/credentials"
	"reps-auth/internal/auth/handler"
	"reps-auth/internal/auth/provider"
	"reps-auth/internal/auth/provider/github"
	"reps-auth/internal/auth/provider/google"
	"reps-auth/internal/auth/resolver"
	"reps-auth/internal/config"
	"reps-auth/internal/logger"
	"reps-auth/internal/middleware"
	"reps-auth/internal/session"

	"github.com/gin-gonic/gin"
)

// setupProviders builds the registry from whichever providers are configured.
// A provider without a client ID is skipped.
func setupProviders(ctx context.Context, cfg config.Server) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleClientID != "" {
		p, err := google.New(ctx, google.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  callbackURL(cfg, cfg.GoogleRedirectURL, "google"),
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.GitHubClientID != "" {
		p, err := github.New(github.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  callbackURL(cfg, cfg.GitHubRedirectURL, "github"),
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry, err := provider.NewRegistry(list...)
	if err != nil {
		return nil, err
	}

	logger.Info("oauth providers configured", map[string]any{
		"providers": registry.Names(),
	})
	return registry, nil
}

func callbackURL(cfg config.Server, explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimRight(cfg.PublicBaseURL, "/") + "/oauth/callback/" + name
}

// newRouter wires every route on top of already-connected infrastructure.
func newRouter(
	cfg config.Server,
	registry *provider.Registry,
	sessionStore session.Store,
	identityResolver resolver.Resolver,
	authenticator handler.Authenticator,
) *gin.Engine {

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		identityResolver,
		authenticator,
		handler.Options{
			SessionTTL:        cfg.SessionTTL,
			PendingSessionTTL: cfg.PendingSessionTTL,
			SecureCookies:     strings.HasPrefix(cfg.PublicBaseURL, "https://"),
		},
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)
	signInLimiter := middleware.NewRateLimiter(cfg.SignInRatePerSecond, cfg.SignInBurst)

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, handler.Middleware{
		SignInLimit: signInLimiter.Gin(),
		RequireAuth: middleware.GinRequireAuth(authMiddleware),
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func setupHTTP(ctx context.Context, cfg config.Server) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router := newRouter(
		cfg,
		registry,
		session.NewRedisStore(infra.Redis.Client),
		resolver.NewDBResolver(infra.DB),
		credentials.NewService(infra.DB),
	)

	return router, infra.Close, nil
}
