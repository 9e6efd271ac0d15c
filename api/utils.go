package api

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var localPartRegex = regexp.MustCompile(`^[a-z0-9._-]+$`)

// newValidator returns a validator with the custom "localpart" tag for
// alias local parts.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("localpart", func(fl validator.FieldLevel) bool {
		return localPartRegex.MatchString(fl.Field().String())
	})
	return v
}
