package validation

import (
	"strings"
	"testing"

	"github.com/datakit-go/datastream/errors"
)

func TestValidatorChaining(t *testing.T) {
	err := New().
		Required("source", "").
		Min("buffer", 0, 1).
		OneOf("format", "xml", []string{"native", "raw"}).
		Validate()
	if err == nil {
		t.Fatal("Validate returned nil for three failing checks")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", err)
	}
	fields, ok := err.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Fatalf("details = %v, want 3 field errors", err.Details)
	}
	for _, want := range []string{"source", "buffer", "format"} {
		if !strings.Contains(err.Message, want) {
			t.Errorf("message %q misses field %s", err.Message, want)
		}
	}
}

func TestValidatorPasses(t *testing.T) {
	err := New().
		Required("source", "mnist").
		Min("buffer", 512, 1).
		Range("shards", 4, 1, 64).
		OneOf("format", "raw", []string{"native", "raw"}).
		Custom(true, "split", "unused").
		Validate()
	if err != nil {
		t.Fatalf("Validate = %v, want nil", err)
	}
}

func TestStructValidate(t *testing.T) {
	type opts struct {
		Source string `json:"source" validate:"required"`
		Buffer int    `json:"buffer" validate:"omitempty,min=1"`
		Format string `json:"format" validate:"omitempty,oneof=native raw"`
	}

	if err := Validate(opts{Source: "mnist", Buffer: 100, Format: "raw"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := Validate(opts{Buffer: -1, Format: "xml"})
	if err == nil {
		t.Fatal("invalid struct accepted")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", err)
	}
	for _, want := range []string{"source: is required", "buffer: must be at least 1", "format: must be one of"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q misses %q", err.Error(), want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Source", "source"},
		{"ShuffleBuffer", "shuffle_buffer"},
		{"ID", "i_d"},
		{"split", "split"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
