package entity

import "time"

// Estados registrados en la bitácora de la sala de espera.
const (
	WaitingStatusWaiting = "waiting"
	WaitingStatusCleared = "cleared"
)

// WaitingRoom contador de pacientes en espera, uno por tenant.
// El incremento debe ser atómico en el store (patient_count = patient_count + 1).
type WaitingRoom struct {
	ID           string
	DoctorID     string
	PatientCount int
	UpdatedAt    time.Time
}

// WaitingRoomEntry paciente actualmente listado en la sala de espera.
type WaitingRoomEntry struct {
	ID            string
	WaitingRoomID string
	PatientID     string
	Status        string
	CreatedAt     time.Time

	// Proyección para listados; no se persiste en la tabla de entradas.
	PatientName string
}

// WaitingRoomLog registro append-only de transiciones de estado del contador.
type WaitingRoomLog struct {
	ID              int64
	WaitingRoomID   string
	Status          string
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
