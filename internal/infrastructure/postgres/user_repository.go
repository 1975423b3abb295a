package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, doctor_id, email, password_hash, name, role, status, created_at, updated_at`

// Create persiste una nueva cuenta.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.DoctorID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), "get user")
}

// FindByEmail obtiene una cuenta por email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), "find user by email")
}

// FindNurse devuelve la enfermera sólo si pertenece al equipo; nil si no.
func (r *UserRepo) FindNurse(ctx context.Context, teamID, nurseID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND doctor_id = $2 AND role = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, nurseID, teamID, entity.RoleNurse), "find nurse")
}

// ListNurses enfermeras del equipo con su rol asignado (vacío si no tienen).
func (r *UserRepo) ListNurses(ctx context.Context, teamID string) ([]*entity.NurseWithRole, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(ro.name, '')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles ro ON ro.id = ur.role_id AND ro.team_id = $1
		WHERE u.doctor_id = $1 AND u.role = $2
		ORDER BY u.name`
	rows, err := r.q.Query(ctx, query, teamID, entity.RoleNurse)
	if err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}
	defer rows.Close()
	var list []*entity.NurseWithRole
	for rows.Next() {
		var n entity.NurseWithRole
		if err := rows.Scan(&n.ID, &n.Name, &n.Email, &n.RoleName); err != nil {
			return nil, fmt.Errorf("scan nurse: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.DoctorID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
