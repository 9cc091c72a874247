package utils

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// APIError represents a structured API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common API Errors
var (
	ErrInternalServer  = NewAPIError("INTERNAL_SERVER_ERROR", "An unexpected error occurred", fiber.StatusInternalServerError)
	ErrBadRequest      = NewAPIError("BAD_REQUEST", "Invalid request", fiber.StatusBadRequest)
	ErrUnauthorized    = NewAPIError("UNAUTHORIZED", "Unauthorized", fiber.StatusUnauthorized)
	ErrTooManyRequests = NewAPIError("TOO_MANY_REQUESTS", "Too many requests, please try again later.", fiber.StatusTooManyRequests)
)

// ErrorHandler is the fiber error handler shared by the origin and edge apps.
// Unknown errors are logged and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ErrorResponse(c, apiErr.Message, apiErr.Status)
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		return ErrorResponse(c, e.Message, e.Code)
	}

	slog.Error("Unhandled request error", "error", err, "method", c.Method(), "path", c.Path())
	return ErrorResponse(c, ErrInternalServer.Message, ErrInternalServer.Status)
}
