package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream contract errors
const (
	// ErrCodeUnsupportedOperation indicates an operation a lazy stream cannot
	// honor (random access, length queries). Never silently degraded.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
	// ErrCodeProviderFailure indicates a non-end-of-stream error raised while
	// pulling records from a provider.
	ErrCodeProviderFailure ErrorCode = "PROVIDER_FAILURE"
	// ErrCodeConversionFailure indicates the value adapter rejected a field
	// kind explicitly declared invalid for the schema.
	ErrCodeConversionFailure ErrorCode = "CONVERSION_FAILURE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates an operator or option argument is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested source or split was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderFailure: true,
	ErrCodeTimeout:         true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
