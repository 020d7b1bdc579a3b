package ports

import "context"

// AIProvider generates content from a prompt. One implementation exists per
// vendor; callers depend only on this capability, never on vendor identity.
type AIProvider interface {
	Name() string
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ProviderRegistry resolves a provider by name.
type ProviderRegistry interface {
	Get(name string) (AIProvider, error)
	Names() []string
}
