package serverutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// slug: lowercase letters, digits and hyphens only (the replica's public URL
// segment).
var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError carries per-field messages for form-level display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewFieldError builds a single-field validation error. Used to re-signal
// remote conflicts (duplicate slug) as input problems.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ValidateRequest runs struct tag validation and converts failures into a
// field-keyed ValidationError.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields[strings.ToLower(fe.Field())] = messageForTag(fe)
		}
		return &ValidationError{Fields: fields}
	}
	return err
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "slug":
		return "can only contain lowercase letters, numbers, and hyphens"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
