// Package validator decodes HTML form posts into structs and validates them
// with go-playground/validator tags. Messages are user facing (Spanish).
package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

var (
	validate    *validator.Validate
	formDecoder *form.Decoder
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Field errors are keyed by the form field name so templates can look
	// them up by input name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	formDecoder = form.NewDecoder()
}

// ErrInvalidForm is returned when the request body is not a parseable form.
var ErrInvalidForm = errors.New("invalid form")

// FieldErrors maps form field name to message.
type FieldErrors map[string]string

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → message. Other errors give an empty map.
func FormatValidationErrors(err error) FieldErrors {
	errs := make(FieldErrors)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "email":
		return "Ingresa un correo válido"
	case "url":
		return "Ingresa una URL válida"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener al menos %s caracteres", e.Param())
		}
		return fmt.Sprintf("Debe ser al menos %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener como máximo %s caracteres", e.Param())
		}
		return fmt.Sprintf("Debe ser como máximo %s", e.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", e.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", e.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", e.Param())
	case "eqfield":
		return "Los valores no coinciden"
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", e.Param())
	case "numeric":
		return "Debe ser un valor numérico"
	default:
		return fmt.Sprintf("Valor inválido (%s)", e.Tag())
	}
}

// DecodeForm parses the request form into T and validates it.
//
//   - unparseable body      → (nil, nil, ErrInvalidForm)
//   - validation failure    → (req, fieldErrors, nil); req is returned so the
//     form can be re-rendered with what the user typed
//   - success               → (req, nil, nil)
func DecodeForm[T any](r *http.Request) (*T, FieldErrors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	var req T
	if err := formDecoder.Decode(&req, r.PostForm); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	if err := Validate(&req); err != nil {
		return &req, FormatValidationErrors(err), nil
	}
	return &req, nil, nil
}
