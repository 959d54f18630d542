// Package validation wraps the validator/v10 library and converts its
// failures into the errs error shape the API writes to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/promptlib/backend/errs"
)

// slug values are restricted to lowercase letters, digits and hyphens
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validator wraps go-playground/validator with ApiErr conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our payloads.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// URL alias fields on tags
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns an *errs.ApiErr on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.NewBadRequestError(err.Error())
	}

	// Report the first failing field, matching how the original surfaced
	// one message per request.
	e := validationErrs[0]
	return errs.NewInvalidFieldError(e.Field(), v.friendlyMessage(e))
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "slug":
		return "may only contain lowercase letters, numbers and hyphens"
	default:
		return "is invalid"
	}
}
