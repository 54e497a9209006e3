// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(fieldName)
	validate.RegisterValidation("ean", validateEAN)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// fieldName reports json or form names so errors match what clients sent.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// MaxEAN is the largest code that fits in 13 digits.
const MaxEAN = 9_999_999_999_999

// validateEAN accepts an EAN-13 held in an integer or a 13-character string.
// Integers drop leading zeros, so any positive value up to MaxEAN is a code.
func validateEAN(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int64:
		v := field.Int()
		return v >= 1 && v <= MaxEAN
	case reflect.String:
		s := field.String()
		if len(s) != 13 || strings.Trim(s, "0") == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if isNumeric(e.Kind()) {
			return e.Field() + " must be at least " + e.Param()
		}
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		if isNumeric(e.Kind()) {
			return e.Field() + " must be at most " + e.Param()
		}
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "latitude":
		return e.Field() + " must be a latitude between -90 and 90"
	case "longitude":
		return e.Field() + " must be a longitude between -180 and 180"
	case "ean":
		return e.Field() + " must be a 13-digit EAN"
	case "required_with":
		return e.Field() + " is required together with " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
