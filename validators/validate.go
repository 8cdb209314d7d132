package validators

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance. Error maps key on the json tag
// name of the offending field.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Messages flattens validation errors into a field -> message map for
// middleware.ValidationErrorResponse.
func Messages(err error) map[string]string {
	errors := make(map[string]string)

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request body!"
		return errors
	}

	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			errors[e.Field()] = e.Field() + " is required!"
		case "email":
			errors[e.Field()] = "Invalid email!"
		case "min":
			errors[e.Field()] = e.Field() + " must be at least " + e.Param() + "!"
		case "max":
			errors[e.Field()] = e.Field() + " must be at most " + e.Param() + "!"
		default:
			errors[e.Field()] = "Invalid " + e.Field() + "!"
		}
	}

	return errors
}
