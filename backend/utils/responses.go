package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the envelope for error JSON responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error writes a JSON error response.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden writes a 403 Forbidden response.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}
