package errors

import (
	"errors"
	"fmt"
)

var (
	// Catalog errors
	ErrProductNotFound      = errors.New("product not found or inactive")
	ErrProductMisconfigured = errors.New("product code configuration invalid")

	// Order errors
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// Inventory errors
	ErrOutOfStock = errors.New("no activation codes available")

	// Webhook errors
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrMalformedContent     = errors.New("payment content carries no order reference")
	ErrAmountMismatch       = errors.New("payment amount does not match order")
	ErrDuplicateTransaction = errors.New("transaction already recorded")

	// Fulfillment errors
	ErrCodeAssignment = errors.New("activation code assignment failed")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
