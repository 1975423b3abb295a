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

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository. Los permisos viven en un
// catálogo global (tabla permissions) y se atan a roles vía role_permissions;
// los roles se atan a usuarios vía user_roles.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleColumns = `id, team_id, name, created_at, updated_at`

// Create persiste un rol nuevo. Duplicado (team_id, name) -> ErrDuplicate.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	query := `
		INSERT INTO roles (` + roleColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, role.ID, role.TeamID, role.Name, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetByName busca un rol por nombre dentro del tenant; nil si no existe.
func (r *RoleRepo) GetByName(ctx context.Context, teamID, name string) (*entity.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE team_id = $1 AND name = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, teamID, name), "get role by name")
}

// GetByID busca un rol por id dentro del tenant; nil si no existe.
func (r *RoleRepo) GetByID(ctx context.Context, teamID, id string) (*entity.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE team_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, teamID, id), "get role")
}

// ListByTeam roles del tenant, sin el rol reservado del médico.
func (r *RoleRepo) ListByTeam(ctx context.Context, teamID string) ([]*entity.Role, error) {
	query := `
		SELECT ` + roleColumns + `
		FROM roles
		WHERE team_id = $1 AND name <> $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, teamID, entity.ReservedDoctorRole)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		var ro entity.Role
		if err := rows.Scan(&ro.ID, &ro.TeamID, &ro.Name, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &ro)
	}
	return list, rows.Err()
}

// Delete elimina el rol del tenant. Las filas de role_permissions y
// user_roles caen por ON DELETE CASCADE.
func (r *RoleRepo) Delete(ctx context.Context, teamID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE team_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplacePermissions clear-then-set: borra los permisos actuales del rol y
// otorga exactamente los listados. Nombres fuera del catálogo no insertan nada.
func (r *RoleRepo) ReplacePermissions(ctx context.Context, roleID string, permissionNames []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}
	if len(permissionNames) == 0 {
		return nil
	}
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, p.id FROM permissions p WHERE p.name = ANY($2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(ctx, query, roleID, permissionNames); err != nil {
		return fmt.Errorf("grant role permissions: %w", err)
	}
	return nil
}

// AssignSingleRole garantiza rol único: quita todos los roles del usuario y
// asigna exactamente roleID.
func (r *RoleRepo) AssignSingleRole(ctx context.Context, userID, roleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
	if _, err := r.q.Exec(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RolePermissions nombres de permisos otorgados al rol, en orden de catálogo.
func (r *RoleRepo) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	query := `
		SELECT p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.id`
	return r.scanNames(ctx, query, "role permissions", roleID)
}

// UserPermissions unión de permisos del usuario a través de sus roles del tenant.
func (r *RoleRepo) UserPermissions(ctx context.Context, userID, teamID string) ([]string, error) {
	query := `
		SELECT DISTINCT p.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id AND ro.team_id = $2
		JOIN role_permissions rp ON rp.role_id = ro.id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1`
	return r.scanNames(ctx, query, "user permissions", userID, teamID)
}

// AllPermissions catálogo global completo.
func (r *RoleRepo) AllPermissions(ctx context.Context) ([]string, error) {
	return r.scanNames(ctx, `SELECT name FROM permissions ORDER BY id`, "all permissions")
}

func (r *RoleRepo) scanOne(row pgx.Row, op string) (*entity.Role, error) {
	var ro entity.Role
	err := row.Scan(&ro.ID, &ro.TeamID, &ro.Name, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ro, nil
}

func (r *RoleRepo) scanNames(ctx context.Context, query, op string, args ...interface{}) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
