package utils

import (
	domainerrors "fraudconsole/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, err *domainerrors.DomainError) error {
	return Respond(c, fiber.StatusBadRequest, err)
}

// BadGateway reports a failed upstream call as {"code": ..., "error": ...}.
func BadGateway(c *fiber.Ctx, err *domainerrors.DomainError) error {
	return Respond(c, fiber.StatusBadGateway, err)
}
