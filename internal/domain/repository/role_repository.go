package repository

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia para roles y permisos por tenant.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByName(ctx context.Context, teamID, name string) (*entity.Role, error)
	GetByID(ctx context.Context, teamID, id string) (*entity.Role, error)
	// ListByTeam roles del tenant excluyendo el rol reservado `doctor`.
	ListByTeam(ctx context.Context, teamID string) ([]*entity.Role, error)
	// Delete devuelve domain.ErrNotFound si el rol no existe en el tenant.
	Delete(ctx context.Context, teamID, id string) error

	// ReplacePermissions reemplaza el conjunto de permisos del rol
	// (clear-then-set). Nombres desconocidos del catálogo se ignoran.
	ReplacePermissions(ctx context.Context, roleID string, permissionNames []string) error
	// AssignSingleRole quita todos los roles del usuario y asigna exactamente roleID.
	AssignSingleRole(ctx context.Context, userID, roleID string) error
	// RolePermissions nombres de permisos otorgados al rol.
	RolePermissions(ctx context.Context, roleID string) ([]string, error)
	// UserPermissions unión de permisos del usuario vía sus roles del tenant.
	UserPermissions(ctx context.Context, userID, teamID string) ([]string, error)
	// AllPermissions catálogo global completo (para el rol doctor).
	AllPermissions(ctx context.Context) ([]string, error)
}
