// Package auth implementa registro y login. El alta de un médico arranca su
// tenant completo: rol reservado `doctor` con el catálogo entero de permisos,
// asignación de ese rol y fila de preferencias.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
	"github.com/medisuite/consultorio-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TxRunner ejecuta el alta de cuenta dentro de una transacción: usuario,
// rol doctor con permisos, asignación y preferencias o nada.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		users repository.UserRepository,
		roles repository.RoleRepository,
		prefs repository.PreferenceRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	tx       TxRunner
	userRepo repository.UserRepository
	cache    access.PermissionCache
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx TxRunner, userRepo repository.UserRepository, cache access.PermissionCache, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{tx: tx, userRepo: userRepo, cache: cache, jwtCfg: jwtCfg}
}

// Register crea una cuenta. Médicos: se auto-crea el rol `doctor` del tenant
// con todos los permisos del catálogo y se asigna. Enfermeras: doctor_id debe
// apuntar a un médico existente. Ambos reciben su fila de preferencias
// (granularidad `year` para médicos, `day` para el resto).
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleDoctor
	}
	if role != entity.RoleDoctor && role != entity.RoleNurse {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	var doctorID *string
	if role == entity.RoleNurse {
		if in.DoctorID == "" {
			return nil, domain.ErrInvalidInput
		}
		owner, err := uc.userRepo.GetByID(ctx, in.DoctorID)
		if err != nil {
			return nil, err
		}
		if owner == nil || owner.Role != entity.RoleDoctor {
			return nil, domain.ErrNotFound // el médico dueño no existe
		}
		doctorID = &in.DoctorID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		DoctorID:     doctorID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	kpi := "day"
	if role == entity.RoleDoctor {
		kpi = "year"
	}

	err = uc.tx.RunRegistration(ctx, func(
		users repository.UserRepository,
		roles repository.RoleRepository,
		prefs repository.PreferenceRepository,
	) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if role == entity.RoleDoctor {
			doctorRole := &entity.Role{
				ID:        uuid.New().String(),
				TeamID:    user.ID,
				Name:      entity.ReservedDoctorRole,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := roles.Create(ctx, doctorRole); err != nil {
				return err
			}
			all, err := roles.AllPermissions(ctx)
			if err != nil {
				return err
			}
			if err := roles.ReplacePermissions(ctx, doctorRole.ID, all); err != nil {
				return err
			}
			if err := roles.AssignSingleRole(ctx, user.ID, doctorRole.ID); err != nil {
				return err
			}
		}
		return prefs.Create(ctx, &entity.UserPreference{
			ID:        uuid.New().String(),
			DoctorID:  user.ID,
			KpiDate:   kpi,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	// La resolución de permisos del tenant cambió con el alta.
	uc.cache.Invalidate(user.TeamID())

	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + cuenta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	doctorID := ""
	if user.DoctorID != nil {
		doctorID = *user.DoctorID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, doctorID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.DoctorID != nil {
		out.DoctorID = *u.DoctorID
	}
	return out
}
