package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// respondError maps a domain error to an HTTP status and writes the JSON
// error envelope. Errors without a recognized kind become 500 without
// leaking internals to the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case shared.IsNotFound(err):
		return writeError(c, fiber.StatusNotFound, err.Error())
	case shared.IsAlreadyExists(err):
		return writeError(c, fiber.StatusConflict, err.Error())
	case shared.IsUnauthorized(err):
		return writeError(c, fiber.StatusUnauthorized, err.Error())
	case shared.IsValidation(err):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return writeError(c, fiber.StatusBadRequest, message)
}
