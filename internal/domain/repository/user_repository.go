package repository

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas de usuario.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindNurse devuelve la enfermera sólo si pertenece al equipo indicado; nil si no.
	FindNurse(ctx context.Context, teamID, nurseID string) (*entity.User, error)
	// ListNurses enfermeras del equipo con su rol asignado.
	ListNurses(ctx context.Context, teamID string) ([]*entity.NurseWithRole, error)
}

// PreferenceRepository puerto de persistencia para preferencias por cuenta.
type PreferenceRepository interface {
	Create(ctx context.Context, pref *entity.UserPreference) error
	GetByOwner(ctx context.Context, ownerID string) (*entity.UserPreference, error)
	Update(ctx context.Context, pref *entity.UserPreference) error
}
