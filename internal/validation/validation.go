package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors carries per-field validation failures so API responses can name
// the offending fields instead of a bare "validation failed".
type FieldErrors struct {
	Fields map[string]string
}

// Error implements the error interface
func (e *FieldErrors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details converts the field failures into a response-friendly map.
func (e *FieldErrors) Details() map[string]interface{} {
	details := make(map[string]interface{}, len(e.Fields))
	for name, rule := range e.Fields {
		details[name] = rule
	}
	return details
}

// ValidateStruct validates a struct using go-playground/validator and
// returns a *FieldErrors describing every failed field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
			}
			fields[fe.Field()] = rule
		}
		return &FieldErrors{Fields: fields}
	}

	return fmt.Errorf("validation failed: %w", err)
}
