package middleware

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xelaconnect/backend/internal/apperror"
)

// validate is the shared validator instance. validator.Validate caches
// struct metadata, so a single instance is reused for all requests.
var validate = validator.New()

// ValidateStruct checks a bound request DTO against its `validate` tags and
// converts the first failure into an apperror.NewValidation with a field-level
// message. Handlers call this right after echo's Bind.
func ValidateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperror.NewValidation("invalid request")
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperror.NewValidation(field + " is required")
	case "email":
		return apperror.NewValidation(field + " must be a valid email address")
	case "min":
		return apperror.NewValidation(field + " is too short")
	case "max":
		return apperror.NewValidation(field + " is too long")
	default:
		return apperror.NewValidation(field + " is invalid")
	}
}
