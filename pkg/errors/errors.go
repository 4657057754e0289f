package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategorySystemError    ErrorCategory = "system_error"    // processor answered 5xx or garbage
	CategoryNetworkError   ErrorCategory = "network_error"   // request never completed
	CategoryInvalidRequest ErrorCategory = "invalid_request" // processor rejected the request shape (4xx)
	CategoryAuthentication ErrorCategory = "authentication"  // bad merchant credentials
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryUnavailable    ErrorCategory = "unavailable" // circuit open or rate limited
)

// PaymentError describes a processor call that did not complete
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Details        map[string]interface{}
	Err            error
}

func (e *PaymentError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.GatewayMessage != "" {
		msg = fmt.Sprintf("%s (gateway: %s)", msg, e.GatewayMessage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying transport error
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory, retriable bool) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// Wrap attaches a cause to the error and returns it
func (e *PaymentError) Wrap(err error) *PaymentError {
	e.Err = err
	return e
}

// IsRetriable reports whether err is a PaymentError that may succeed on retry
func IsRetriable(err error) bool {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.IsRetriable
	}
	return false
}

// CategoryOf returns the category of a PaymentError, or "" for other errors
func CategoryOf(err error) ErrorCategory {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}
