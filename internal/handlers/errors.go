package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error to its status code. Storage failures are
// already logged by the service and are not echoed to the client.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrSelfBlock), errors.Is(err, services.ErrAlreadyBlocked):
		status = fiber.StatusConflict
	}
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
