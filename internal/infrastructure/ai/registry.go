package ai

import (
	"fmt"
	"sort"

	"contentboost-shopify-layer/internal/ports"
)

// Registry resolves AI providers by name. Only providers with configured
// credentials are registered, so a missing key surfaces as "unknown provider"
// rather than a doomed upstream call.
type Registry struct {
	providers map[string]ports.AIProvider
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...ports.AIProvider) *Registry {
	m := make(map[string]ports.AIProvider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (ports.AIProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown AI provider: %s", name)
	}
	return p, nil
}

// Names lists the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.ProviderRegistry = (*Registry)(nil)
