package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/domain"
)

// fail traduce un error de dominio al sobre {message, error} con el status
// correspondiente. Los errores no reconocidos son 500.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Err(err.Error(), "UNAUTHORIZED"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Err(err.Error(), "FORBIDDEN"))
	case errors.Is(err, domain.ErrNurseNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Err(err.Error(), "NOT_FOUND"))
	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Err(err.Error(), "DUPLICATE"))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Err(err.Error(), "VALIDATION"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Err(err.Error(), "INTERNAL"))
	}
}

// badBody respuesta uniforme para cuerpos que no parsean.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Err("cuerpo inválido", "INVALID_BODY"))
}
