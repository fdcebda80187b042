// Package inputval validates request payloads with go-playground/validator
// and turns validation failures into client-facing messages.
package inputval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a payload struct against its `validate` tags.
func Struct(v any) error {
	return validate.Struct(v)
}

// Message converts a validation error into a short client-facing message.
// Non-validation errors fall back to a generic wording so internal detail
// never leaks into a 400 body.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "datos de entrada no válidos"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("el campo %s es obligatorio", field)
	case "required_without":
		return "se requiere al menos teléfono o instagram"
	case "gte", "lte", "min", "max":
		return fmt.Sprintf("el campo %s está fuera de rango", field)
	default:
		return fmt.Sprintf("el campo %s no es válido", field)
	}
}
