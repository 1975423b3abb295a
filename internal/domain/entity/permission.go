package entity

import "time"

// Nombres de permisos del catálogo global. Superadmin actúa como comodín:
// encabeza toda lista de permisos aceptables en los controladores.
const (
	PermSuperadmin    = "superadmin"
	PermAccessPatient = "access_patient"
	PermInsertPatient = "insert_patient"
	PermUpdatePatient = "update_patient"
	PermDeletePatient = "delete_patient"
	PermDetailPatient = "detail_patient"
)

// PermissionCatalog devuelve el catálogo completo, en orden estable.
// El rol reservado `doctor` se crea con todos estos permisos.
func PermissionCatalog() []string {
	return []string{
		PermSuperadmin,
		PermAccessPatient,
		PermInsertPatient,
		PermUpdatePatient,
		PermDeletePatient,
		PermDetailPatient,
	}
}

// ReservedDoctorRole nombre del rol que se auto-crea para cada médico.
const ReservedDoctorRole = "doctor"

// Role paquete de permisos con nombre, scoped por tenant (team_id = id del médico).
type Role struct {
	ID        string
	TeamID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NurseWithRole proyección de una enfermera con su rol asignado (lista de equipo).
type NurseWithRole struct {
	ID       string
	Name     string
	Email    string
	RoleName string // vacío si aún no tiene rol asignado
}
