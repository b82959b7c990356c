package errors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidFormat         Code = "INVALID_FORMAT"
	CodeEmptyCart             Code = "EMPTY_CART"
	CodeInvalidItems          Code = "INVALID_ITEMS"
	CodeInvalidQuantity       Code = "INVALID_QUANTITY"
	CodeInvalidID             Code = "INVALID_ID"
	CodeNotFound              Code = "NOT_FOUND"
	CodeStorageUnavailable    Code = "STORAGE_UNAVAILABLE"
	CodeIDAllocationExhausted Code = "ID_ALLOCATION_EXHAUSTED"
	CodeInvalidPhone          Code = "INVALID_PHONE"
	CodeInvalidTrackingID     Code = "INVALID_TRACKING_ID"
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeConflict              Code = "CONFLICT"
	CodeInternal              Code = "INTERNAL_ERROR"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Code    Code
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(code Code, message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// ConflictError reports a request that is well-formed but not allowed in the
// order's current state, or a lost compare-and-swap on update.
type ConflictError struct {
	Code    Code
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(code Code, message string) *ConflictError {
	return &ConflictError{
		Code:    code,
		Message: message,
	}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InternalError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(code Code, message string, cause error) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func IsInternalError(err error) (*InternalError, bool) {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// CodeOf returns the taxonomy code carried by err, or CodeInternal for
// errors that did not originate in this package.
func CodeOf(err error) Code {
	if ve, ok := IsValidationError(err); ok {
		return ve.Code
	}
	if _, ok := IsNotFoundError(err); ok {
		return CodeNotFound
	}
	if ce, ok := IsConflictError(err); ok {
		return ce.Code
	}
	if ie, ok := IsInternalError(err); ok {
		return ie.Code
	}
	return CodeInternal
}

func StorageUnavailable(message string, cause error) *InternalError {
	return NewInternalError(CodeStorageUnavailable, message, cause)
}
