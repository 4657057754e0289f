package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Argument Errors (programmer errors, never retried)
	ErrorCodeInvalidArguments ErrorCode = "INVALID_ARGUMENTS"

	// Transaction Errors (TXN_*)
	ErrorCodeTxnNotFound ErrorCode = "TXN_NOT_FOUND"

	// Payment Method Errors (PM_*)
	ErrorCodePMNotFound ErrorCode = "PM_NOT_FOUND"
	ErrorCodePMRequired ErrorCode = "PM_REQUIRED"

	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeGatewayError   ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayTimeout ErrorCode = "GATEWAY_TIMEOUT"

	// Configuration Errors
	ErrorCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Internal Errors (INTERNAL_*)
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so sentinel values work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of the error with an extra detail field
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Err: e.Err, Details: details, Code: e.Code, Message: e.Message}
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsGatewayError checks if an error is a payment gateway error
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayError ||
		code == ErrorCodeGatewayTimeout
}

var (
	ErrInvalidArguments    = NewDomainError(ErrorCodeInvalidArguments, "invalid arguments")
	ErrRefundExceedsAmount = NewDomainError(ErrorCodeInvalidArguments, "refund amount exceeds the transaction amount")

	ErrTxnNotFound = NewDomainError(ErrorCodeTxnNotFound, "transaction not found")

	ErrPMNotFound = NewDomainError(ErrorCodePMNotFound, "payment method not found")
	ErrPMRequired = NewDomainError(ErrorCodePMRequired, "payment method required")

	ErrValidationFailed = NewDomainError(ErrorCodeValidationFailed, "validation failed")

	ErrGatewayError    = NewDomainError(ErrorCodeGatewayError, "payment gateway error")
	ErrGatewayTimedOut = NewDomainError(ErrorCodeGatewayTimeout, "payment gateway timeout")

	ErrConfigInvalid = NewDomainError(ErrorCodeConfigInvalid, "invalid configuration")
	ErrDatabaseError = NewDomainError(ErrorCodeDatabaseError, "database error")
)
