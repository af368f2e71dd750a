package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server configures the identity provider service.
type Server struct {
	AppPort       string `env:"APP_PORT" envDefault:"8080"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	PendingSessionTTL time.Duration `env:"PENDING_SESSION_TTL" envDefault:"10m"`

	SignInRatePerSecond float64 `env:"SIGN_IN_RATE" envDefault:"1"`
	SignInBurst         int     `env:"SIGN_IN_BURST" envDefault:"5"`
}

// Client configures the sign-in front end.
type Client struct {
	BaseURL         string        `env:"SIGNIN_BASE_URL" envDefault:"http://localhost:8080"`
	Backend         string        `env:"SIGNIN_BACKEND" envDefault:"frontend"`
	KratosPublicURL string        `env:"KRATOS_PUBLIC_URL" envDefault:"http://localhost:4433"`
	RequestTimeout  time.Duration `env:"SIGNIN_TIMEOUT" envDefault:"30s"`
	ExternalTimeout time.Duration `env:"SIGNIN_EXTERNAL_TIMEOUT" envDefault:"5m"`
	CallbackHost    string        `env:"SIGNIN_CALLBACK_HOST" envDefault:"127.0.0.1"`
	CallbackPort    int           `env:"SIGNIN_CALLBACK_PORT" envDefault:"0"`
}

const (
	BackendFrontend = "frontend"
	BackendKratos   = "kratos"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// LoadServer reads the server configuration from the environment, after
// loading a .env file when one exists.
func LoadServer() (Server, error) {
	if err := loadDotEnv(); err != nil {
		return Server{}, err
	}

	cfg, err := env.ParseAs[Server]()
	if err != nil {
		return Server{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if cfg.SessionTTL <= 0 || cfg.PendingSessionTTL <= 0 {
		return Server{}, fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}
	if cfg.SignInRatePerSecond <= 0 || cfg.SignInBurst <= 0 {
		return Server{}, fmt.Errorf("%w: sign-in rate limit must be positive", ErrInvalidConfig)
	}

	return cfg, nil
}

// LoadClient reads the front end configuration from the environment.
func LoadClient() (Client, error) {
	if err := loadDotEnv(); err != nil {
		return Client{}, err
	}

	cfg, err := env.ParseAs[Client]()
	if err != nil {
		return Client{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch cfg.Backend {
	case BackendFrontend, BackendKratos:
	default:
		return Client{}, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}

	return cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
