package schema

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// fieldKeyPattern is the identifier grammar templates can address:
// a letter or underscore followed by letters, digits, or underscores.
var fieldKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator, initialized on first
// use with json tag names and the field_key tag.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = v.RegisterValidation("field_key", func(fl validator.FieldLevel) bool {
			return fieldKeyPattern.MatchString(fl.Field().String())
		})

		validate = v
	})
	return validate
}

// validateStruct runs tag validation over v.
func validateStruct(v any) error {
	return validatorInstance().Struct(v)
}

// firstViolation extracts the offending field name and a short message
// from a validator error.
func firstViolation(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field(), "is required"
		case "min":
			return fe.Field(), "needs at least " + fe.Param() + " entries"
		case "oneof":
			return fe.Field(), "must be one of " + fe.Param()
		case "field_key":
			return fe.Field(), "must start with a letter or underscore and contain only letters, digits, or underscores"
		default:
			return fe.Field(), "failed " + fe.Tag() + " validation"
		}
	}
	return "", err.Error()
}
