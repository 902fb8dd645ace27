package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/example/academy/internal/repository"
)

var (
	ErrNotFound             = repository.ErrNotFound
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrMalformedCode        = errors.New("code must be numeric")
	ErrResendCooldown       = errors.New("a code was sent recently, please wait before requesting another")
	ErrTooManyRequests      = errors.New("too many requests")
	ErrForbidden            = errors.New("forbidden")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCheckoutInProgress   = errors.New("cart is already being checked out")
	ErrOrderNotPending      = errors.New("order is not awaiting payment")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ConflictError reports which unique field is already taken.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already taken", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be at most 11 digits starting with 09"
	case "username":
		return "must be longer than 4 characters, use only letters and digits, and not start with a digit"
	case "duration":
		return "must be formatted as HH:MM:SS"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
