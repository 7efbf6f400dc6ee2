// Package validation holds the submitted form shapes, their rules and the
// fixed messages shown next to a failing field.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field failures. It is returned as an error by
// the services and rendered back into the submitted form.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// Has reports whether field has at least one failure.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages maps "field.rule" (or just "field") to the user-facing text.
type Messages map[string]string

// Form is implemented by every submitted form type in this package.
type Form interface {
	Messages() Messages
}

var (
	personNamePattern    = regexp.MustCompile(`^[A-Za-z ]+$`)
	alphanumSpacePattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	classNamePattern     = regexp.MustCompile(`^[A-Za-z0-9-]*$`)
	leadingLetterPattern = regexp.MustCompile(`^[A-Za-z]`)
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors carry the form field name so they line up with the inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "alphanumspace", func(fl validator.FieldLevel) bool {
		return alphanumSpacePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "startsalpha", func(fl validator.FieldLevel) bool {
		return leadingLetterPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "classname", func(fl validator.FieldLevel) bool {
		return classNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Check runs the struct rules of form. The result is empty when the form is
// valid; at most one failure is reported per field.
func (v *Validator) Check(form Form) Errors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Message: err.Error()}}
	}

	messages := form.Messages()
	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: lookup(messages, fe)})
	}
	return out
}

func lookup(messages Messages, fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fe.Error()
}

// StrongPassword requires at least 12 characters with an upper case letter, a
// lower case letter, a digit and a symbol.
func StrongPassword(password string) bool {
	if len([]rune(password)) < 12 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSpace(r):
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
