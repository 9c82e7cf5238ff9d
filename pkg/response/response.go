package response

import (
	"errors"
	"net/http"
	"time"

	"escrow-wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the standard error envelope. Retryable tells the caller the
// same request may succeed if sent again unchanged.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data any) {
	success(c, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data any) {
	success(c, http.StatusCreated, data)
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

// Error sends an error response. *apperror.AppError is mapped to its code and status,
// anything else becomes a generic 500. The full error is attached to the gin context
// for the request logger; only the public message is returned.
// Serialization conflicts carry Retry-After: 1.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			ErrorCode: "SYS_000",
			Message:   "Internal server error",
			RequestID: requestID(c),
			Timestamp: now(),
		})
		return
	}

	retryable := retryableCode(appErr.Code)
	if appErr.Code == apperror.CodeSerializationConflict {
		c.Header("Retry-After", "1")
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Retryable: retryable,
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

func retryableCode(code string) bool {
	switch code {
	case apperror.CodeSerializationConflict, apperror.CodeRateLimitExceeded, apperror.CodeStoreUnavailable:
		return true
	default:
		return false
	}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// requestID reads the id set by the request-id middleware, or makes one up.
func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return uuid.NewString()
}
