package auth

// Identity is the normalized result of a federated sign-in: facts
// reported by the provider, with no account decisions attached.
type Identity struct {
	Provider       string // registry name, "google" or "github"
	ProviderUserID string // provider-scoped subject
	Email          string
	EmailVerified  bool // provider asserts ownership of Email
}
