package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// ok writes the standard success envelope
func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// okList writes a success envelope with a count field
func okList(c *fiber.Ctx, data interface{}, count int) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   count,
	})
}

// fail writes the standard failure envelope
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// failErr maps domain errors onto HTTP status codes
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrInvalidLocation), errors.Is(err, domain.ErrNoAsset):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPortfolioItemNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConcurrencyConflict), errors.Is(err, domain.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}
