package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
)

// PreferenceHandler maneja los ajustes de la cuenta (granularidad de KPIs).
type PreferenceHandler struct {
	uc *usecase.PreferenceUseCase
}

// NewPreferenceHandler construye el handler.
func NewPreferenceHandler(uc *usecase.PreferenceUseCase) *PreferenceHandler {
	return &PreferenceHandler{uc: uc}
}

// Get godoc
// @Summary      Preferencias de la cuenta
// @Tags         preferences
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/preferences [get]
func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("preferencias", out))
}

// Update godoc
// @Summary      Actualizar preferencias de la cuenta
// @Tags         preferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePreferenceRequest  true  "kpi_date: day | month | year"
// @Success      200   {object}  dto.Response
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/preferences [put]
func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePreferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("preferencias actualizadas", out))
}
