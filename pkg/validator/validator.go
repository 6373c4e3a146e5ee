package validator

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// Message renders the failure for end users
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.FailedField)
	case "trimmed_min":
		return fmt.Sprintf("%s must have at least %s characters", e.FailedField, e.Value)
	case "store_email":
		return fmt.Sprintf("%s is not a valid email address", e.FailedField)
	case "strong_password":
		return fmt.Sprintf("%s must have at least %d characters, an uppercase letter, a lowercase letter, a number and a special character",
			e.FailedField, security.PasswordMinLength)
	case "amount":
		return fmt.Sprintf("%s must be a non-negative amount", e.FailedField)
	case "numeric":
		return fmt.Sprintf("%s must be a valid number", e.FailedField)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.FailedField, e.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.FailedField, e.Value)
	}
	return fmt.Sprintf("%s failed on tag '%s'", e.FailedField, e.Tag)
}

var validate = validator.New()

func init() {
	// Register custom validations for the retail domain
	validate.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		// measured on what is stored, not on what was sent
		return utf8.RuneCountInString(security.Clean(fl.Field().String())) >= min
	})
	validate.RegisterValidation("store_email", func(fl validator.FieldLevel) bool {
		return security.ValidateEmail(fl.Field().String())
	})
	validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return security.ValidatePassword(fl.Field().String())
	})
	validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := model.ParseAmount(fl.Field().String())
		return err == nil
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "input", Tag: "invalid"}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError validates data and returns the first failure as an error, or nil
func FirstError(data interface{}) error {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", errs[0].Message())
	}
	return nil
}
