package httpx

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports struct fields by their
// JSON names, so 422 details line up with request payload keys.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors flattens validator failures into a field:message map.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		return fields
	}
	for _, fieldErr := range verrs {
		fields[fieldErr.Field()] = messageFor(fieldErr)
	}
	return fields
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

func messageFor(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "The " + fieldErr.Field() + " field is required."
	case "email":
		return "The " + fieldErr.Field() + " must be a valid email address."
	case "url":
		return "The " + fieldErr.Field() + " must be a valid URL."
	case "max":
		return "The " + fieldErr.Field() + " may not be greater than " + fieldErr.Param() + " characters."
	case "oneof":
		return "The selected " + fieldErr.Field() + " is invalid."
	default:
		return "The " + fieldErr.Field() + " is invalid."
	}
}
