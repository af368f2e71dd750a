package signin

import "strings"

// Strategy is the provider's identifier for one federated sign-in method.
type Strategy string

const (
	StrategyGoogle Strategy = "oauth_google"
	StrategyGitHub Strategy = "oauth_github"
)

const strategyPrefix = "oauth_"

// ProviderName strips the strategy prefix, e.g. "oauth_google" -> "google".
func (s Strategy) ProviderName() string {
	return strings.TrimPrefix(string(s), strategyPrefix)
}

// StrategyFor is the inverse of ProviderName.
func StrategyFor(providerName string) Strategy {
	return Strategy(strategyPrefix + providerName)
}

// OAuthProvider describes one federated sign-in button.
type OAuthProvider struct {
	Strategy Strategy
	IconKey  string
	Label    string
}

// Display order.
var oauthProviders = []OAuthProvider{
	{Strategy: StrategyGoogle, IconKey: "google", Label: "Google"},
	{Strategy: StrategyGitHub, IconKey: "github", Label: "GitHub"},
}

// OAuthProviders returns the configured federated providers in display order.
func OAuthProviders() []OAuthProvider {
	out := make([]OAuthProvider, len(oauthProviders))
	copy(out, oauthProviders)
	return out
}

func lookupProvider(s Strategy) (OAuthProvider, bool) {
	for _, p := range oauthProviders {
		if p.Strategy == s {
			return p, true
		}
	}
	return OAuthProvider{}, false
}
