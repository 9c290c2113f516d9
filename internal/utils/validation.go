package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// MaxRequestBodySize limits request bodies to 1 MiB.
const MaxRequestBodySize = 1 << 20

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator instance
func InitValidator() {
	validate = validator.New()

	// Register function to get json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct
// with size limits and precise error reporting
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError

		switch {
		case err.Error() == "http: request body too large":
			return NewBadRequestError("Request body is too large")

		case errors.Is(err, io.EOF):
			return NewBadRequestError("Request body must not be empty")

		case errors.Is(err, io.ErrUnexpectedEOF):
			return NewBadRequestError("Request body contains malformed JSON")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return NewValidationError("unknown_field", fmt.Sprintf("Request body contains unknown field %s", fieldName))

		case errors.As(err, &syntaxError):
			return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

		default:
			return NewBadRequestError(fmt.Sprintf("Error decoding JSON: %s", err.Error()))
		}
	}

	// Check for additional JSON data that would be ignored
	if dec.More() {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// DecodeAndValidate decodes a JSON request body and validates the
// resulting struct in one step.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateStruct(v)
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(v interface{}) error {
	if validate == nil {
		InitValidator()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		// If only one field has an error, return a specific field error
		if len(validationErrors) == 1 {
			fieldErr := validationErrors[0]
			return NewValidationError(fieldErr.Field(), validationMessage(fieldErr))
		}

		// Multiple field errors: report the first but mention the count
		fieldErr := validationErrors[0]
		return NewValidationError(
			fieldErr.Field(),
			fmt.Sprintf("%s (and %d more validation errors)", validationMessage(fieldErr), len(validationErrors)-1),
		)
	}

	return NewBadRequestError(err.Error())
}

// validationMessage builds a human-readable message for a field error
func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fieldErr.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fieldErr.Param())
	case "email":
		return "Must be a valid email address"
	default:
		return fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
	}
}
