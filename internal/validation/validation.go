package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their form name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("nocontrol", noControlChars); err != nil {
		panic(fmt.Sprintf("register nocontrol validation: %v", err))
	}
}

// noControlChars rejects values carrying control characters such as newlines or NUL.
func noControlChars(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToText turns validation errors into one sentence per field, suitable for an end user.
func ErrorsToText(validationErrs error) string {
	var errs validator.ValidationErrors
	if !errors.As(validationErrs, &errs) {
		return validationErrs.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		switch fieldErr.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required.", fieldErr.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters.", fieldErr.Field(), fieldErr.Param()))
		case "nocontrol":
			msgs = append(msgs, fmt.Sprintf("%s contains invalid characters.", fieldErr.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid.", fieldErr.Field()))
		}
	}
	return strings.Join(msgs, " ")
}
