// Package validation checks option structs and builder inputs.
//
// Two styles are supported: tag-driven struct validation through
// go-playground/validator,
//
//	type LoadOptions struct {
//		Split string `validate:"omitempty,alphanum"`
//	}
//	err := validation.Validate(opts)
//
// and a chainable programmatic validator for checks tags cannot
// express,
//
//	err := validation.New().
//		Required("source", sourceID).
//		Min("buffer", buf, 1).
//		Validate()
//
// Both report failures as a single INVALID_INPUT error with per-field
// details.
package validation
