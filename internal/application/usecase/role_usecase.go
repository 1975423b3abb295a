package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// RoleUseCase administración de roles y permisos del tenant. Capacidad
// exclusiva del médico: toda operación rechaza enfermeras vía el gate.
// Cada mutación invalida la caché de permisos del tenant de forma síncrona.
type RoleUseCase struct {
	gate     *access.Gate
	tx       RoleTxRunner
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(gate *access.Gate, tx RoleTxRunner, roleRepo repository.RoleRepository, userRepo repository.UserRepository) *RoleUseCase {
	return &RoleUseCase{gate: gate, tx: tx, roleRepo: roleRepo, userRepo: userRepo}
}

// CreateRole crea un rol vacío scoped al tenant. ErrDuplicate si el nombre ya
// existe para el tenant (el mismo nombre es válido en otros tenants).
func (uc *RoleUseCase) CreateRole(ctx context.Context, id access.Identity, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RoleName == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.roleRepo.GetByName(ctx, teamID, in.RoleName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	role := &entity.Role{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		Name:      in.RoleName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	uc.gate.Cache().Invalidate(teamID)
	out := dto.ToRoleResponse(role)
	return &out, nil
}

// GrantAccess reemplaza atómicamente el conjunto de permisos del rol y deja
// a la enfermera con exactamente ese rol (política de rol único). Idempotente
// sobre el conjunto de permisos: repetir la llamada produce el mismo estado.
func (uc *RoleUseCase) GrantAccess(ctx context.Context, id access.Identity, in dto.GrantAccessRequest) error {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return err
	}
	if in.NurseID == "" || in.RoleName == "" {
		return domain.ErrInvalidInput
	}

	nurse, err := uc.userRepo.FindNurse(ctx, teamID, in.NurseID)
	if err != nil {
		return err
	}
	if nurse == nil {
		return domain.ErrNurseNotFound
	}
	role, err := uc.roleRepo.GetByName(ctx, teamID, in.RoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrRoleNotFound
	}

	err = uc.tx.RunRoleGrant(ctx, func(roles repository.RoleRepository) error {
		if err := roles.ReplacePermissions(ctx, role.ID, in.Permissions); err != nil {
			return err
		}
		return roles.AssignSingleRole(ctx, nurse.ID, role.ID)
	})
	if err != nil {
		return err
	}

	uc.gate.Cache().Invalidate(teamID)
	return nil
}

// ListRoles roles del tenant, excluido el rol reservado `doctor`.
func (uc *RoleUseCase) ListRoles(ctx context.Context, id access.Identity) ([]dto.RoleResponse, error) {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := uc.roleRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.ToRoleResponse(r))
	}
	return out, nil
}

// RolePermissions permisos otorgados al rol, resuelto por nombre en el tenant.
func (uc *RoleUseCase) RolePermissions(ctx context.Context, id access.Identity, roleName string) ([]string, error) {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := uc.roleRepo.GetByName(ctx, teamID, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	perms, err := uc.roleRepo.RolePermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []string{}
	}
	return perms, nil
}

// DeleteRole elimina un rol del tenant e invalida la caché: el siguiente
// chequeo de permisos ya refleja la eliminación.
func (uc *RoleUseCase) DeleteRole(ctx context.Context, id access.Identity, roleID string) error {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.roleRepo.Delete(ctx, teamID, roleID); err != nil {
		return err
	}
	uc.gate.Cache().Invalidate(teamID)
	return nil
}

// Nurses enfermeras del equipo con su rol asignado.
func (uc *RoleUseCase) Nurses(ctx context.Context, id access.Identity) ([]dto.NurseResponse, error) {
	teamID, err := uc.gate.RequireDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	nurses, err := uc.userRepo.ListNurses(ctx, teamID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NurseResponse, 0, len(nurses))
	for _, n := range nurses {
		out = append(out, dto.NurseResponse{ID: n.ID, Name: n.Name, Email: n.Email, RoleName: n.RoleName})
	}
	return out, nil
}
