package provider

import (
	"context"

	"github.com/datakit-go/datastream/resilience"
)

// Middleware transforms a Source by wrapping it. The returned source
// delegates to the original while adding cross-cutting behavior.
//
// A wrapped source intentionally exposes only the base Source surface:
// capability interfaces of the inner source (Lengther, TakeSource, ...)
// are not forwarded, so downstream code falls back to its generic
// implementations. Apply middleware outermost for that reason.
type Middleware func(Source) Source

// Chain composes multiple middlewares into one. Middlewares are applied
// in order: the first middleware is outermost.
//
// Chain(a, b, c)(source) is equivalent to a(b(c(source))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Source) Source {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// WithRetry returns a Middleware that retries opening the record
// iterator. Individual Next calls are not retried; a stream that fails
// mid-iteration must be rebuilt from a fresh operator chain.
func WithRetry(cfg resilience.RetryConfig) Middleware {
	return func(inner Source) Source {
		return &retrySource{inner: inner, cfg: cfg}
	}
}

type retrySource struct {
	inner Source
	cfg   resilience.RetryConfig
}

func (s *retrySource) Name() string                         { return s.inner.Name() }
func (s *retrySource) IsAvailable(ctx context.Context) bool { return s.inner.IsAvailable(ctx) }

func (s *retrySource) Records(ctx context.Context) (Iterator[Raw], error) {
	return resilience.Retry(ctx, s.cfg, func() (Iterator[Raw], error) {
		return s.inner.Records(ctx)
	})
}
