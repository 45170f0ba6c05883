// Package errors defines the datastream error taxonomy: structured errors
// with machine-readable codes, cause chaining compatible with errors.Is/As,
// and retryable detection. End-of-stream is deliberately NOT an error
// here; iterators signal exhaustion through their ok result.
package errors
