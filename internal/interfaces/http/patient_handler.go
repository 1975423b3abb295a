package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
)

// PatientHandler maneja las peticiones HTTP del registro de pacientes
// (protegido; el gate verifica permisos por acción).
type PatientHandler struct {
	uc   *usecase.PatientUseCase
	docs *usecase.DocumentUseCase
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *usecase.PatientUseCase, docs *usecase.DocumentUseCase) *PatientHandler {
	return &PatientHandler{uc: uc, docs: docs}
}

// List godoc
// @Summary      Listar pacientes del consultorio
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        page      query  int     false  "Página"            default(1)
// @Param        per_page  query  int     false  "Tamaño de página"  default(20)
// @Param        search    query  string  false  "Substring sobre nombre o apellido"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("parámetros de página inválidos", "INVALID_QUERY"))
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), c.Query("search"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("pacientes", out))
}

// Create godoc
// @Summary      Registrar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PatientRequest  true  "Datos del paciente"
// @Success      201   {object}  dto.Response
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.PatientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("paciente registrado", out))
}

// Show godoc
// @Summary      Obtener paciente por ID
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) Show(c *fiber.Ctx) error {
	out, err := h.uc.Show(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("paciente", out))
}

// Detail godoc
// @Summary      Expediente del paciente (citas, recetas, intervenciones, estudios)
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/details [get]
func (h *PatientHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("expediente", out))
}

// Tiny godoc
// @Summary      Proyección nombre/apellido del paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/tiny [get]
func (h *PatientHandler) Tiny(c *fiber.Ctx) error {
	out, err := h.uc.Tiny(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("paciente", out))
}

// Search godoc
// @Summary      Autocompletado de pacientes por nombre o apellido
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Substring a buscar"
// @Success      200  {object}  dto.Response
// @Router       /api/patients/search [get]
func (h *PatientHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.SearchNames(c.UserContext(), GetIdentity(c), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("pacientes", out))
}

// Update godoc
// @Summary      Actualizar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del paciente"
// @Param        body  body  dto.PatientRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var in dto.PatientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("paciente actualizado", out))
}

// Delete godoc
// @Summary      Eliminar paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("paciente eliminado", nil))
}

// PrescriptionPDF godoc
// @Summary      Receta del paciente en PDF
// @Tags         patients
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del paciente"
// @Param        pid  path  string  true  "ID de la receta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/prescriptions/{pid}/pdf [get]
func (h *PatientHandler) PrescriptionPDF(c *fiber.Ctx) error {
	out, err := h.docs.PrescriptionPDF(c.UserContext(), GetIdentity(c), c.Params("id"), c.Params("pid"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="receta.pdf"`)
	return c.Send(out)
}

// ExportXML godoc
// @Summary      Exportar expediente del paciente en XML
// @Tags         patients
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del paciente"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/patients/{id}/export.xml [get]
func (h *PatientHandler) ExportXML(c *fiber.Ctx) error {
	out, err := h.docs.ExportXML(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expediente.xml"`)
	return c.Send(out)
}
