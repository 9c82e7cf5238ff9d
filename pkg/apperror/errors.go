package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by code, so errors.Is(err, ErrInsufficientFunds()) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

const (
	CodeInsufficientFunds     = "LEDGER_001"
	CodeInvalidCost           = "LEDGER_002"
	CodeNotFound              = "LEDGER_003"
	CodeLockNotHeld           = "LOCK_001"
	CodeInvalidWorkload       = "LOCK_002"
	CodeInvalidSignature      = "AUTH_001"
	CodeTimestampExpired      = "AUTH_002"
	CodeNonceUsed             = "AUTH_003"
	CodeStoreUnavailable      = "SYS_001"
	CodeSerializationConflict = "SYS_002"
	CodeRateLimitExceeded     = "SYS_003"
)

// ---- Credit Ledger (LEDGER) ----

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient funds", http.StatusBadRequest)
}

func ErrInvalidCost(err error) *AppError {
	return Wrap(CodeInvalidCost, "Invalid cost: "+err.Error(), http.StatusBadRequest, err)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Validation returns a LEDGER_002-style validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidCost, message, http.StatusBadRequest)
}

// ---- Wallet Locks (LOCK) ----

func ErrLockNotHeld() *AppError {
	return New(CodeLockNotHeld, "Wallet does not hold the lock being released", http.StatusConflict)
}

func ErrInvalidWorkload(err error) *AppError {
	return Wrap(CodeInvalidWorkload, "Invalid workload", http.StatusBadRequest, err)
}

// ---- Service Authentication (AUTH) ----

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Invalid or missing request signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New(CodeTimestampExpired, "Request timestamp expired", http.StatusUnauthorized)
}

func ErrNonceUsed() *AppError {
	return New(CodeNonceUsed, "Nonce already used", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// ErrStoreUnavailable marks an infrastructure failure. Fatal for the current cycle.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap(CodeStoreUnavailable, "Internal server error", http.StatusInternalServerError, err)
}

// ErrSerializationConflict marks a transient store conflict. Retry the whole operation.
func ErrSerializationConflict(err error) *AppError {
	return Wrap(CodeSerializationConflict, "Concurrent update conflict, retry", http.StatusServiceUnavailable, err)
}

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return ErrStoreUnavailable(err)
}

// IsConflict reports whether err is a retryable serialization conflict.
func IsConflict(err error) bool {
	return HasCode(err, CodeSerializationConflict)
}

// HasCode reports whether err wraps an AppError with code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
