package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen al sobre de error {message, error} con el status correspondiente.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrNurseNotFound      = errors.New("enfermera no encontrada")
	ErrRoleNotFound       = errors.New("rol no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
