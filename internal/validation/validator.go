// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// Domain rules. Both are evaluated at request time, not at schema
	// definition time: "pastyear" reads the current calendar year on every
	// call so a request made next January uses next January's year.
	//nolint:errcheck // RegisterValidation only errors on an empty tag name
	_ = v.RegisterValidation("pastyear", validatePastYear)
	//nolint:errcheck // RegisterValidation only errors on an empty tag name
	_ = v.RegisterValidation("isbn", validateISBNDigits)

	return &Validator{v: v}
}

// validatePastYear accepts integer years up to and including the current
// calendar year. Zero is accepted so optional fields can rely on `required`.
func validatePastYear(fl validator.FieldLevel) bool {
	field := fl.Field()
	var year int64
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		year = field.Int()
	default:
		return false
	}
	if year == 0 {
		return true
	}
	return year <= int64(time.Now().Year())
}

// validateISBNDigits accepts strings consisting solely of ASCII digits.
// The empty string passes; pair with `required` where the field is mandatory.
func validateISBNDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Collect all field errors
	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	// Return domain validation error with details
	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "pastyear":
		return "cannot be in the future"
	case "isbn":
		return "must contain only digits"
	default:
		return "is invalid"
	}
}
