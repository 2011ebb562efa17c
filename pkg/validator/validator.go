package validator

import (
	"context"
	"errors"

	"github.com/go-playground/validator"
)

var global *validator.Validate

const (
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrInvalidEmail       = "Invalid e-mail address"
	ErrValueNotAllowed    = "Value is not one of the allowed options"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	return validator.New()
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "email":
		msg = ErrInvalidEmail
	case "oneof":
		msg = ErrValueNotAllowed
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Namespace())
}
