package usecase

import (
	"context"
	"time"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

var validKpiDates = map[string]struct{}{"day": {}, "month": {}, "year": {}}

// PreferenceUseCase ajustes por cuenta (granularidad de reportes).
type PreferenceUseCase struct {
	gate *access.Gate
	repo repository.PreferenceRepository
}

// NewPreferenceUseCase construye el caso de uso.
func NewPreferenceUseCase(gate *access.Gate, repo repository.PreferenceRepository) *PreferenceUseCase {
	return &PreferenceUseCase{gate: gate, repo: repo}
}

// Get preferencias de la cuenta autenticada.
func (uc *PreferenceUseCase) Get(ctx context.Context, id access.Identity) (*dto.PreferenceResponse, error) {
	if _, err := uc.gate.CheckUserRole(ctx, id); err != nil {
		return nil, err
	}
	pref, err := uc.repo.GetByOwner(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.PreferenceResponse{KpiDate: pref.KpiDate}, nil
}

// Update cambia la granularidad por defecto de los reportes.
func (uc *PreferenceUseCase) Update(ctx context.Context, id access.Identity, in dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	if _, err := uc.gate.CheckUserRole(ctx, id); err != nil {
		return nil, err
	}
	if _, ok := validKpiDates[in.KpiDate]; !ok {
		return nil, domain.ErrInvalidInput
	}
	pref, err := uc.repo.GetByOwner(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, domain.ErrNotFound
	}
	pref.KpiDate = in.KpiDate
	pref.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, pref); err != nil {
		return nil, err
	}
	return &dto.PreferenceResponse{KpiDate: pref.KpiDate}, nil
}
