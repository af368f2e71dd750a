package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"reps-auth/internal/auth"
	"reps-auth/internal/logger"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	providerName   = "github"
	defaultAPIBase = "https://api.github.com"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and APIBaseURL override GitHub's public endpoints.
	Endpoint   *oauth2.Endpoint
	APIBaseURL string
}

// Provider implements OAuth against GitHub. GitHub is not an OIDC issuer,
// so identity facts come from the REST API with the exchanged token.
type Provider struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	endpoint := githuboauth.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBaseURL: apiBase,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Label() string {
	return "GitHub"
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.VerifierOption(codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := p.oauthConfig.Client(ctx, token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, errors.New("github user response missing id")
	}

	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return nil, err
	}

	email, verified := primaryEmail(emails)
	if email == "" {
		return nil, errors.New("github account has no primary email")
	}

	logger.Info("github user fetched", map[string]any{
		"login":          user.Login,
		"email_verified": verified,
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          email,
		EmailVerified:  verified,
	}, nil
}

func (p *Provider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github %s decode failed: %w", path, err)
	}
	return nil
}

func primaryEmail(emails []githubEmail) (string, bool) {
	for _, e := range emails {
		if e.Primary {
			return e.Email, e.Verified
		}
	}
	return "", false
}
