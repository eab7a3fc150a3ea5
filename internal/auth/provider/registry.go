package provider

import (
	"errors"
	"sort"
)

// ErrUnknownProvider is returned for names that were never registered.
var ErrUnknownProvider = errors.New("provider: unknown oauth provider")

// Registry maps /auth/:provider names to providers.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry registers providers by Name. A later provider with the same
// name replaces an earlier one.
func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// Names lists registered provider names in order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
