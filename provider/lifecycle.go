package provider

import "context"

// Initializable is optionally implemented by providers that need setup
// before producing records (e.g., open a file, validate a path, warm a
// cache). The Manager calls Init() automatically during initialization.
type Initializable interface {
	Init(ctx context.Context) error
}

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup. The Manager calls Close() during shutdown.
type Closeable interface {
	Close(ctx context.Context) error
}
