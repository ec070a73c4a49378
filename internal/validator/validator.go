package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

// Validator wraps go-playground/validator with the service's custom rules
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with every custom rule registered
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	v.business = newBusinessValidator(v)
	v.business.registerBusinessRules()
	return v
}

// Validate validates a struct and returns utils.ValidationErrors on failure
func (v *Validator) Validate(s interface{}) error {
	if errs := v.ValidateStruct(s); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStruct is Validate without the error interface wrapping
func (v *Validator) ValidateStruct(s interface{}) utils.ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ToValidationErrors converts validator errors into utils.ValidationErrors
func ToValidationErrors(err error) utils.ValidationErrors {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return utils.ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(utils.ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, utils.ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "role_name":
		return "must be a non-empty role name"
	case "reference_name":
		return "must be between 1 and 255 characters"
	case "presence_count":
		return "must be a non-negative count"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
