package validation

import (
	"fmt"
	"strings"
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	// Field is the input field the rule ran against.
	Field string `json:"field"`

	// Code is the symbolic rule identifier (e.g. "required", "min").
	// Message resolution maps it to a human-readable template.
	Code string `json:"code"`

	// Params carries rule parameters for template rendering
	// (e.g. {"min": 2} for a minimum-length rule).
	Params map[string]any `json:"params,omitempty"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Code
	}
	return e.Field + ": " + e.Code
}

// Errors is a collection of field errors.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Fields returns the distinct field names that have errors, in order of
// first appearance.
func (e Errors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	var fields []string
	for _, fe := range e {
		if _, ok := seen[fe.Field]; ok {
			continue
		}
		seen[fe.Field] = struct{}{}
		fields = append(fields, fe.Field)
	}
	return fields
}

// Translate rewrites each error's Code into a message using fn, applied
// in-place. Errors for which fn returns false keep their code. A nil fn
// is a no-op.
func (e Errors) Translate(fn func(code string, params map[string]any) (string, bool)) {
	if fn == nil {
		return
	}
	for i := range e {
		if msg, ok := fn(e[i].Code, e[i].Params); ok {
			e[i].Code = msg
		}
	}
}

// Outcome is the result of running external validation over request data.
// Exactly one of the two states holds: either the sanitized data is
// available, or the field errors are.
type Outcome struct {
	data   map[string]any
	errors Errors
	valid  bool
}

// Valid wraps successfully validated data.
func Valid(data map[string]any) Outcome {
	return Outcome{data: data, valid: true}
}

// Invalid wraps the field errors of a failed validation. An empty error
// list is normalized to a single unspecified failure so an invalid outcome
// never looks clean.
func Invalid(errs Errors) Outcome {
	if len(errs) == 0 {
		errs = Errors{{Code: "invalid"}}
	}
	return Outcome{errors: errs}
}

// IsValid reports whether the outcome carries validated data.
func (o Outcome) IsValid() bool {
	return o.valid
}

// Data returns the validated data. Nil for invalid outcomes.
func (o Outcome) Data() map[string]any {
	return o.data
}

// Get returns a single value from the validated data.
func (o Outcome) Get(key string) (any, bool) {
	v, ok := o.data[key]
	return v, ok
}

// String returns a string value from the validated data, or def when the
// key is absent or not a string.
func (o Outcome) String(key, def string) string {
	if v, ok := o.data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Errors returns the field errors. Nil for valid outcomes.
func (o Outcome) Errors() Errors {
	return o.errors
}
