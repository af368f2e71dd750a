package signin

// FieldState holds what the user has typed plus the error on display.
// Error is empty when there is nothing to show.
type FieldState struct {
	Identifier    string
	Secret        string
	SecretVisible bool
	Error         string
}

// SetIdentifier replaces the identifier and clears any displayed error.
func (f *FieldState) SetIdentifier(v string) {
	f.Identifier = v
	f.Error = ""
}

// SetSecret replaces the secret and clears any displayed error.
func (f *FieldState) SetSecret(v string) {
	f.Secret = v
	f.Error = ""
}

// ToggleSecretVisible flips whether the secret is shown in clear text.
func (f *FieldState) ToggleSecretVisible() {
	f.SecretVisible = !f.SecretVisible
}

func (f FieldState) credentials() Credentials {
	return Credentials{Identifier: f.Identifier, Secret: f.Secret}
}

// IsSubmittable reports whether the credential submit action should be
// enabled. It gates only the credential path.
func IsSubmittable(state FieldState, providerReady bool) bool {
	return state.Identifier != "" && state.Secret != "" && providerReady
}
