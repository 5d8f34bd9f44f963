package errors

import (
	"fmt"
	"slices"
	"strings"
)

// MetaValidationErrors is the meta key holding the []FieldError of a failed
// validation
const MetaValidationErrors = "validation_errors"

// FieldError is one failed check on a config or input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationBuilder collects field errors in the order the checks ran, so
// the resulting message is stable from run to run.
type ValidationBuilder struct {
	fields []FieldError
}

// NewValidationBuilder creates an empty builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{}
}

// Field records a failed check
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.fields = append(vb.fields, FieldError{Field: field, Message: message})
	return vb
}

// Fieldf records a failed check with a formatted message
func (vb *ValidationBuilder) Fieldf(field, format string, args ...interface{}) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

// RequiredField records a missing field
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField records a field with an unusable value
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// Build returns nil when every check passed. Otherwise it returns an
// InvalidArgument error naming each failure, with the failures under
// MetaValidationErrors.
func (vb *ValidationBuilder) Build() error {
	if len(vb.fields) == 0 {
		return nil
	}

	parts := make([]string, len(vb.fields))
	for i, f := range vb.fields {
		parts[i] = f.String()
	}

	return InvalidArgumentf("validation failed: %s", strings.Join(parts, "; ")).
		WithMeta(MetaValidationErrors, slices.Clone(vb.fields))
}

// ValidateRequired fails a blank string field
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange fails a value outside [minValue, maxValue]
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

// ValidateUnique reports the first repeated value in a list
func ValidateUnique(field string, values []string, vb *ValidationBuilder) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			vb.Fieldf(field, "contains duplicate value %q", v)
			return
		}
		seen[v] = struct{}{}
	}
}
