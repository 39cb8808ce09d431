package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain.
// Errors that carry no code are reported as internal errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// MessageOf returns the user-facing message of err. Internal errors never
// expose their cause.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Code != ErrCodeInternalError {
		return appErr.Message
	}
	return "Internal error"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeSelfRequest       = "SELF_REQUEST"
	ErrCodeDuplicateRequest  = "DUPLICATE_REQUEST"
	ErrCodeNoPendingRequest  = "NO_PENDING_REQUEST"
	ErrCodeNoExistingRequest = "NO_EXISTING_REQUEST"
	ErrCodeAlreadyFriends    = "ALREADY_FRIENDS"
	ErrCodeNoFriendship      = "NO_EXISTING_FRIENDSHIP"
)
