// file: validation/validator.go

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Letters and digits of any script, plus _ . @ + -.
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Errors are keyed by the form field name so callers can render them next to the input.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		if name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		return strings.ToLower(fld.Name)
	})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "trimmin", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct runs the tag rules declared on an input struct and converts every
// failure into a field error. Fields are checked independently.
func Struct(input interface{}) Errors {
	errs := Errors{}
	err := validate.Struct(input)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("__all__", InvalidFormat, err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		code, message := describe(fe)
		errs.Add(fe.Field(), code, message)
	}
	return errs
}

func describe(fe validator.FieldError) (Code, string) {
	switch fe.Tag() {
	case "required":
		return Required, "This field is required."
	case "max":
		return TooLong, fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "trimmin":
		return TooShort, fmt.Sprintf("Must contain at least %s characters.", fe.Param())
	case "email":
		return InvalidEmail, "Enter a valid email address."
	case "username":
		return InvalidFormat, "Username may contain only letters, digits and @/./+/-/_ characters."
	default:
		return InvalidFormat, fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
