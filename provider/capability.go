package provider

import "context"

// Optional source capabilities. A Source advertises a capability by
// implementing the interface; callers type-assert and fall back to a
// generic implementation when the assertion fails. Only derivations
// that operate on raw records can be delegated this way; operators
// whose arguments see adapted records (filter, map) always run in the
// stream layer.

// Lengther is implemented by sources that know their record count
// without a full traversal.
type Lengther interface {
	Len(ctx context.Context) (int, error)
}

// Indexer is implemented by sources that support positional access.
type Indexer interface {
	At(ctx context.Context, index int) (Raw, error)
}

// TakeSource is implemented by sources with a native head-limit.
type TakeSource interface {
	Take(n int) Source
}

// SkipSource is implemented by sources with a native prefix-drop.
type SkipSource interface {
	Skip(n int) Source
}

// ShuffleSource is implemented by sources with a native approximate
// shuffle. bufferSize bounds the shuffle reservoir; the order is
// reproducible for a given seed.
type ShuffleSource interface {
	Shuffle(seed int64, bufferSize int) Source
}

// ShardSource is implemented by sources that can partition natively.
// Shards must be pairwise disjoint and their union must cover the
// sequence; the same shard yields the same order on every traversal.
type ShardSource interface {
	Shard(numShards, index int) Source
}

// SplitSource is implemented by sources that expose named subsets
// (train, test, validation, ...).
type SplitSource interface {
	// Splits returns the available split names.
	Splits() []string
	// Split returns a Source limited to one named split.
	Split(name string) (Source, error)
}
