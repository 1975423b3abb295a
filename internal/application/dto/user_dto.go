package dto

import "time"

// RegisterRequest alta de cuenta. Para role=nurse, doctor_id es obligatorio.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`      // doctor | nurse
	DoctorID string `json:"doctor_id"` // médico dueño, sólo para enfermeras
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse representación pública de una cuenta.
type UserResponse struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token más la cuenta autenticada.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PreferenceResponse ajustes de la cuenta.
type PreferenceResponse struct {
	KpiDate string `json:"kpi_date"`
}

// UpdatePreferenceRequest cuerpo de PUT /api/preferences.
type UpdatePreferenceRequest struct {
	KpiDate string `json:"kpi_date"` // day, month, year
}
