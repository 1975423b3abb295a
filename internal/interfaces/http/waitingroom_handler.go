package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
)

// WaitingRoomHandler maneja el contador de sala de espera del consultorio.
type WaitingRoomHandler struct {
	uc *usecase.WaitingRoomUseCase
}

// NewWaitingRoomHandler construye el handler.
func NewWaitingRoomHandler(uc *usecase.WaitingRoomUseCase) *WaitingRoomHandler {
	return &WaitingRoomHandler{uc: uc}
}

// Get godoc
// @Summary      Estado actual del contador de sala de espera
// @Tags         waiting-room
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/waiting-room [get]
func (h *WaitingRoomHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("sala de espera", out))
}

// Increment godoc
// @Summary      Sumar un paciente a la sala de espera
// @Tags         waiting-room
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IncrementRequest  true  "patient_id"
// @Success      200   {object}  dto.Response
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/waiting-room/increment [post]
func (h *WaitingRoomHandler) Increment(c *fiber.Ctx) error {
	var in dto.IncrementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Increment(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("paciente agregado", out))
}

// Clear godoc
// @Summary      Vaciar la sala de espera
// @Tags         waiting-room
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/waiting-room/clear [post]
func (h *WaitingRoomHandler) Clear(c *fiber.Ctx) error {
	out, err := h.uc.Clear(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("sala de espera vaciada", out))
}

// Entries godoc
// @Summary      Pacientes actualmente en espera
// @Tags         waiting-room
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/waiting-room/entries [get]
func (h *WaitingRoomHandler) Entries(c *fiber.Ctx) error {
	out, err := h.uc.Entries(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("pacientes en espera", out))
}
