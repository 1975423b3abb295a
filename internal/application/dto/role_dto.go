package dto

import (
	"time"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// CreateRoleRequest cuerpo de POST /api/roles.
type CreateRoleRequest struct {
	RoleName string `json:"rolename"`
}

// GrantAccessRequest cuerpo de POST /api/roles/grant: reemplaza los permisos
// del rol y asigna ese único rol a la enfermera.
type GrantAccessRequest struct {
	NurseID     string   `json:"nurse_id"`
	RoleName    string   `json:"rolename"`
	Permissions []string `json:"permissions"`
}

// RoleResponse representación de un rol del tenant.
type RoleResponse struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NurseResponse enfermera del equipo con su rol asignado.
type NurseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleName string `json:"role_name,omitempty"`
}

// ToRoleResponse mapea la entidad al DTO.
func ToRoleResponse(r *entity.Role) RoleResponse {
	return RoleResponse{ID: r.ID, TeamID: r.TeamID, Name: r.Name, CreatedAt: r.CreatedAt}
}
