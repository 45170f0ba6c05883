package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/datakit-go/datastream/logger"
)

// Manager provides the main API for working with dataset sources:
// a Registry for factories plus lifecycle management of initialized
// instances. Sources are always addressed by name (the source id).
type Manager[T Provider] struct {
	mu        sync.RWMutex
	registry  *Registry[T]
	providers map[string]T
	log       *logger.Logger
}

// NewManager creates a Manager backed by the given registry.
func NewManager[T Provider](registry *Registry[T]) *Manager[T] {
	return &Manager[T]{
		registry:  registry,
		providers: make(map[string]T),
		log:       logger.Get("provider"),
	}
}

// Register adds a factory to the underlying registry.
func (m *Manager[T]) Register(name string, factory Factory[T]) {
	m.registry.RegisterFactory(name, factory)
	m.log.Info("factory registered", map[string]interface{}{"provider": name})
}

// Initialize creates a provider from its factory and stores it for use.
func (m *Manager[T]) Initialize(name string, cfg map[string]any) error {
	return m.InitializeWithContext(context.Background(), name, cfg)
}

// InitializeWithContext creates a provider from its factory, runs its
// Init hook if it has one, and stores it for use.
func (m *Manager[T]) InitializeWithContext(ctx context.Context, name string, cfg map[string]any) error {
	instance, err := m.registry.Create(name, cfg)
	if err != nil {
		return fmt.Errorf("initialize provider %q: %w", name, err)
	}
	if init, ok := any(instance).(Initializable); ok {
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("init provider %q: %w", name, err)
		}
	}
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.registry.Set(name, instance)
	m.log.Info("provider initialized", map[string]interface{}{"provider": name})
	return nil
}

// Set stores an already-constructed provider under a name, bypassing
// the factory path.
func (m *Manager[T]) Set(name string, instance T) {
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.registry.Set(name, instance)
}

// GetByName returns a specific provider by name.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("provider %q not found", name)
}

// List returns the names of all initialized providers.
func (m *Manager[T]) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// Shutdown closes all providers that implement Closeable.
func (m *Manager[T]) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	providers := m.providers
	m.providers = make(map[string]T)
	m.mu.Unlock()

	var firstErr error
	for name, p := range providers {
		if closer, ok := any(p).(Closeable); ok {
			if err := closer.Close(ctx); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close provider %q: %w", name, err)
			}
		}
	}
	return firstErr
}
