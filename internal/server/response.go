package server

import (
	"github.com/gofiber/fiber/v3"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonNoMatch is a 404 carrying "did you mean" candidates.
func jsonNoMatch(c fiber.Ctx, message string, suggestions []string) error {
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":      "error",
		"error":       message,
		"suggestions": suggestions,
	})
}
