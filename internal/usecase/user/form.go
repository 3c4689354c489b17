package user

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	pkgerrors "user-directory/pkg/errors"
)

// minPhoneDigits is the shortest accepted phone number.
const minPhoneDigits = 10

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeForm trims every field and applies NFC normalization; the phone
// number is reduced to its digits.
func NormalizeForm(f UserForm) UserForm {
	clean := func(s string) string {
		return norm.NFC.String(strings.TrimSpace(s))
	}
	return UserForm{
		FirstName:     clean(f.FirstName),
		LastName:      clean(f.LastName),
		Email:         clean(f.Email),
		Phone:         nonDigits.ReplaceAllString(f.Phone, ""),
		StreetAddress: clean(f.StreetAddress),
		City:          clean(f.City),
		Region:        clean(f.Region),
		PostalCode:    clean(f.PostalCode),
		Country:       clean(f.Country),
	}
}

// newValidator returns a validator with the form's named rules registered.
// formValidations are the named rules referenced by the form's validate tags.
var formValidations = map[string]validator.Func{
	"phone":      validatePhone,
	"postalcode": validatePostalCode,
}

// newValidator panics when a form rule cannot be registered, since every
// validate tag on the form would then fail.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := registerValidations(v, formValidations); err != nil {
		panic(err)
	}
	return v
}

func registerValidations(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// validatePhone accepts digit-only values of at least minPhoneDigits digits.
func validatePhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) >= minPhoneDigits && !nonDigits.MatchString(s)
}

// validatePostalCode accepts values that parse as a positive number.
func validatePostalCode(fl validator.FieldLevel) bool {
	n, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && n > 0
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// with a human-readable message.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := fieldPath(e)
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", field))
		case "phone":
			messages = append(messages, fmt.Sprintf("%s must contain at least %d digits", field, minPhoneDigits))
		case "postalcode":
			messages = append(messages, fmt.Sprintf("%s must be a positive number", field))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
}

// fieldPath renders the namespace of e without the root struct and embedded
// form names, e.g. "Users[1].Email".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		ns = rest
	}
	return strings.ReplaceAll(ns, "UserForm.", "")
}
