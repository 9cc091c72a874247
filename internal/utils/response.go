package utils

import (
	"github.com/gofiber/fiber/v2"
)

// statusOr picks the optional status argument of the response helpers.
func statusOr(fallback int, code []int) int {
	if len(code) > 0 {
		return code[0]
	}
	return fallback
}

// SuccessResponse wraps data in the {"success":true,"data":...,"message":...}
// envelope, e.g. the /healthz report. Status defaults to 200.
func SuccessResponse(c *fiber.Ctx, data any, message string, code ...int) error {
	return c.Status(statusOr(fiber.StatusOK, code)).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// ErrorResponse writes {"success":false,"error":message}. Login failures,
// throttling and configuration errors all use it so clients only parse one
// shape. Status defaults to 500.
func ErrorResponse(c *fiber.Ctx, message string, code ...int) error {
	return c.Status(statusOr(fiber.StatusInternalServerError, code)).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// Unauthorized is the one 401 body both guard tiers send, whatever the cause,
// so a rejection does not reveal whether a cookie or bearer was close.
func Unauthorized(c *fiber.Ctx) error {
	return ErrorResponse(c, ErrUnauthorized.Message, ErrUnauthorized.Status)
}
