package util

import "net/http"

// Stable machine-readable error codes returned to clients.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an operational error that propagates unchanged to the client
// with its declared HTTP status and code.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

// Shared instances for errors whose message must be identical wherever they
// originate. InvalidCredentials in particular must look the same for an
// unknown email and for a wrong password.
var (
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password"}
	ErrAccountLocked      = &AppError{http.StatusLocked, CodeAccountLocked, "account is temporarily locked, try again later"}
	ErrUnauthorized       = &AppError{http.StatusUnauthorized, CodeUnauthorized, "authentication required"}
)

func Validation(msg string) *AppError {
	return &AppError{http.StatusBadRequest, CodeValidation, msg}
}

func NotFound(msg string) *AppError {
	return &AppError{http.StatusNotFound, CodeNotFound, msg}
}

func Conflict(msg string) *AppError {
	return &AppError{http.StatusConflict, CodeConflict, msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{http.StatusForbidden, CodeForbidden, msg}
}

func RateLimited(msg string) *AppError {
	return &AppError{http.StatusTooManyRequests, CodeRateLimited, msg}
}
