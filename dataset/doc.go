// Package dataset is the consumer-facing loading API.
//
// # Loading
//
// Load resolves a registered source id and produces one of three
// shapes: a lazy stream, an eager in-memory dataset, or a collection
// of splits when the source has them and none was selected.
//
//	res, err := dataset.Load(ctx, "reviews",
//		dataset.WithSplit("train"),
//		dataset.WithStreaming(true),
//		dataset.WithSeed(42),
//	)
//	if err != nil {
//		return err
//	}
//	s := res.Stream().Batch(32, false)
//
// Eager datasets trade memory for the positional access a lazy stream
// refuses: Len and At work, and Streamed re-enters the lazy path.
//
// # Sources
//
// Sources are registered on a provider Manager, either the package
// default or one passed via WithManager. Unknown ids and unknown
// split names report NOT_FOUND.
package dataset
