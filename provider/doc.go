// Package provider defines the boundary to external dataset providers:
// the systems that actually own storage, download, and caching.
//
// A Source produces raw records through a pull-based Iterator. Optional
// capability interfaces (Lengther, Indexer, TakeSource, SkipSource,
// ShuffleSource, ShardSource, SplitSource) let a source implement
// operations natively; callers type-assert for a capability and fall
// back to a generic implementation when it is absent.
//
// Sources are managed by name through a Registry of factories and a
// Manager handling the Initializable/Closeable lifecycle:
//
//	reg := provider.NewRegistry[provider.Source]()
//	reg.RegisterFactory("imdb", newIMDBSource)
//	mgr := provider.NewManager(reg)
//	mgr.InitializeWithContext(ctx, "imdb", cfg)
//	src, _ := mgr.GetByName("imdb")
//
// Cross-cutting behavior is added with Middleware:
//
//	src = provider.Chain(
//	    provider.WithLogging(log),
//	    provider.WithMetrics(metrics),
//	    provider.WithRetry(resilience.DefaultRetryConfig()),
//	)(src)
//
// The built-in reference sources live in the memory and msgfile
// sub-packages; real dataset providers are expected to be implemented
// out of tree.
package provider
