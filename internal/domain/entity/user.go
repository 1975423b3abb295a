package entity

import "time"

// Etiquetas de rol válidas para User. La etiqueta decide la resolución de
// tenant: un médico es su propia raíz; una enfermera hereda la del médico.
const (
	RoleDoctor = "doctor"
	RoleNurse  = "nurse"
)

// User representa una cuenta del sistema. DoctorID es nil para médicos y
// apunta al médico dueño para enfermeras.
type User struct {
	ID           string
	DoctorID     *string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	Name         string
	Role         string // doctor, nurse
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsNurse indica si la cuenta es una enfermera delegada.
func (u *User) IsNurse() bool { return u.Role == RoleNurse }

// TeamID devuelve el tenant efectivo de la cuenta: el médico dueño para
// enfermeras, el propio id para cualquier otro rol.
func (u *User) TeamID() string {
	if u.IsNurse() && u.DoctorID != nil {
		return *u.DoctorID
	}
	return u.ID
}

// UserPreference ajustes por cuenta, creados junto con el registro.
type UserPreference struct {
	ID        string
	DoctorID  string // cuenta dueña de la preferencia
	KpiDate   string // granularidad por defecto de reportes: day, month, year
	CreatedAt time.Time
	UpdatedAt time.Time
}
