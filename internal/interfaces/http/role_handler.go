package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
)

// RoleHandler maneja la administración de roles y permisos del equipo
// (capacidad exclusiva del médico; el gate rechaza enfermeras).
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol del equipo
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoleRequest  true  "rolename"
// @Success      201   {object}  dto.Response
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRole(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("rol creado", out))
}

// List godoc
// @Summary      Listar roles del equipo
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListRoles(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("roles", out))
}

// Grant godoc
// @Summary      Conceder acceso: permisos al rol y rol único a la enfermera
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GrantAccessRequest  true  "nurse_id, rolename, permissions"
// @Success      200   {object}  dto.Response
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/roles/grant [post]
func (h *RoleHandler) Grant(c *fiber.Ctx) error {
	var in dto.GrantAccessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.GrantAccess(c.UserContext(), GetIdentity(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("acceso concedido", nil))
}

// Permissions godoc
// @Summary      Permisos otorgados a un rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del rol"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/roles/{name}/permissions [get]
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	out, err := h.uc.RolePermissions(c.UserContext(), GetIdentity(c), c.Params("name"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("permisos", out))
}

// Delete godoc
// @Summary      Eliminar rol del equipo
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del rol"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteRole(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("rol eliminado", nil))
}

// Nurses godoc
// @Summary      Enfermeras del equipo con su rol asignado
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/nurses [get]
func (h *RoleHandler) Nurses(c *fiber.Ctx) error {
	out, err := h.uc.Nurses(c.UserContext(), GetIdentity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("enfermeras", out))
}
