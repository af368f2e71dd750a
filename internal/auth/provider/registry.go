package provider

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProvider   = errors.New("unknown oauth provider")
	ErrDuplicateProvider = errors.New("duplicate oauth provider")
)

// Registry holds all configured OAuth providers and allows
// lookup by provider name. It performs no auth logic itself.
type Registry struct {
	providers map[string]OAuthProvider
	order     []string
}

// NewRegistry registers the given OAuth providers by name, keeping their
// order. Provider names must be unique.
func NewRegistry(list ...OAuthProvider) (*Registry, error) {
	r := &Registry{providers: make(map[string]OAuthProvider, len(list))}
	for _, p := range list {
		if _, exists := r.providers[p.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.Name())
		}
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r, nil
}

// Get returns the OAuth provider by name or an error if not registered.
func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names lists registered providers in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
