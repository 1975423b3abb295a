package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo implementación del puerto PreferenceRepository.
type PreferenceRepo struct {
	q Querier
}

// NewPreferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPreferenceRepository(q Querier) *PreferenceRepo {
	return &PreferenceRepo{q: q}
}

// Create persiste la fila de preferencias de la cuenta.
func (r *PreferenceRepo) Create(ctx context.Context, pref *entity.UserPreference) error {
	query := `
		INSERT INTO user_preferences (id, doctor_id, kpi_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, pref.ID, pref.DoctorID, pref.KpiDate, pref.CreatedAt, pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert preference: %w", err)
	}
	return nil
}

// GetByOwner preferencias de la cuenta; nil si no existen.
func (r *PreferenceRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.UserPreference, error) {
	query := `SELECT id, doctor_id, kpi_date, created_at, updated_at FROM user_preferences WHERE doctor_id = $1`
	var p entity.UserPreference
	err := r.q.QueryRow(ctx, query, ownerID).Scan(&p.ID, &p.DoctorID, &p.KpiDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return &p, nil
}

// Update guarda los cambios de preferencias.
func (r *PreferenceRepo) Update(ctx context.Context, pref *entity.UserPreference) error {
	query := `UPDATE user_preferences SET kpi_date = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, pref.ID, pref.KpiDate, pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update preference: %w", err)
	}
	return nil
}
