// Package access implementa la puerta de control de acceso: resolución del
// tenant efectivo del llamador y verificación de permisos antes de cualquier
// operación sobre datos del tenant.
package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// Identity identidad autenticada extraída de los claims del JWT.
// No requiere ir a la base: role y doctor_id viajan en el token.
type Identity struct {
	UserID   string
	DoctorID string // referencia al médico dueño; vacía para médicos
	Role     string // doctor | nurse
}

// Authenticated indica si hay una identidad válida.
func (id Identity) Authenticated() bool { return id.UserID != "" }

// PermissionSource resuelve el conjunto efectivo de permisos de un usuario
// dentro de un tenant. Lo implementa el repositorio de roles.
type PermissionSource interface {
	UserPermissions(ctx context.Context, userID, teamID string) ([]string, error)
}

// Gate verifica identidad y permisos. Toda operación scoped por tenant debe
// pasar por CheckUserRole antes de tocar datos.
type Gate struct {
	src   PermissionSource
	cache PermissionCache
}

// NewGate construye la puerta. Si cache es nil se usa una en memoria.
func NewGate(src PermissionSource, cache PermissionCache) *Gate {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Gate{src: src, cache: cache}
}

// Cache expone la caché para que los casos de uso invaliden tras mutaciones.
func (g *Gate) Cache() PermissionCache { return g.cache }

// CheckUserRole resuelve el tenant efectivo del llamador y, si se indican
// permisos, verifica que posea AL MENOS UNO de ellos (semántica OR: la lista
// son alternativas aceptables para la acción, con `superadmin` como comodín
// al frente). Corta antes de cualquier acceso a datos:
//
//   - sin identidad            -> domain.ErrUnauthorized
//   - sin ninguno de los permisos -> domain.ErrForbidden (con los nombres requeridos)
//
// Regla de resolución: enfermera -> médico dueño; cualquier otro rol -> su propio id.
func (g *Gate) CheckUserRole(ctx context.Context, id Identity, permissions ...string) (string, error) {
	if !id.Authenticated() {
		return "", domain.ErrUnauthorized
	}

	teamID := id.UserID
	if id.Role == entity.RoleNurse {
		if id.DoctorID == "" {
			// Enfermera sin médico dueño: viola el invariante del modelo.
			return "", fmt.Errorf("%w: enfermera sin médico asignado", domain.ErrForbidden)
		}
		teamID = id.DoctorID
	}

	if len(permissions) == 0 {
		return teamID, nil
	}

	granted, err := g.userPermissions(ctx, id.UserID, teamID)
	if err != nil {
		return "", fmt.Errorf("resolver permisos: %w", err)
	}
	for _, p := range permissions {
		if _, ok := granted[p]; ok {
			return teamID, nil
		}
	}
	return "", fmt.Errorf("%w: se requiere alguno de [%s]", domain.ErrForbidden, strings.Join(permissions, ", "))
}

// RequireDoctor rechaza enfermeras: las operaciones administrativas de roles
// son capacidad exclusiva del médico. Devuelve el tenant del llamador.
func (g *Gate) RequireDoctor(ctx context.Context, id Identity) (string, error) {
	if !id.Authenticated() {
		return "", domain.ErrUnauthorized
	}
	if id.Role == entity.RoleNurse {
		return "", fmt.Errorf("%w: sólo los médicos pueden administrar roles", domain.ErrForbidden)
	}
	return id.UserID, nil
}

// userPermissions consulta la caché y, en miss, el origen; el resultado se
// memoriza hasta la próxima invalidación del tenant.
func (g *Gate) userPermissions(ctx context.Context, userID, teamID string) (map[string]struct{}, error) {
	if perms, ok := g.cache.Get(teamID, userID); ok {
		return toSet(perms), nil
	}
	perms, err := g.src.UserPermissions(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	g.cache.Set(teamID, userID, perms)
	return toSet(perms), nil
}

func toSet(perms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
