package usecase

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// RoleTxRunner ejecuta la concesión de acceso (clear-then-set de permisos +
// asignación de rol único) dentro de una transacción.
type RoleTxRunner interface {
	RunRoleGrant(ctx context.Context, fn func(roles repository.RoleRepository) error) error
}

// WaitingTxRunner ejecuta la mutación de la sala de espera (entrada +
// contador + bitácora) dentro de una transacción.
type WaitingTxRunner interface {
	RunWaitingRoom(ctx context.Context, fn func(rooms repository.WaitingRoomRepository) error) error
}
