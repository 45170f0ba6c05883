// Package resilience provides retry with exponential backoff and jitter.
// In datastream it backs the provider retry middleware: opening a remote
// dataset source is the one operation worth retrying, while individual
// record pulls are not (a stream that failed mid-iteration must be
// rebuilt from a fresh operator chain).
package resilience
