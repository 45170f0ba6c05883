package provider

import "context"

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to produce records.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// Raw is one unconverted provider record: field name to provider value.
type Raw = map[string]any

// Source is a provider that produces a sequence of raw records.
// Records opens a fresh iterator over the sequence; each call is an
// independent traversal from the beginning.
type Source interface {
	Provider
	Records(ctx context.Context) (Iterator[Raw], error)
}
