package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patient registro demográfico de un paciente. Pertenece a exactamente un
// tenant (DoctorID); toda consulta se filtra por ese campo.
type Patient struct {
	ID        string
	DoctorID  string
	FirstName string
	LastName  string
	BirthDate *time.Time
	Sex       string // F, M, otro
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatientDetail paciente con sus sub-recursos clínicos cargados.
type PatientDetail struct {
	Patient
	Appointments  []Appointment
	Prescriptions []Prescription
	Operations    []Operation
	Xrays         []Xray
}

// Appointment cita de consulta. Fee es el valor de la consulta (NUMERIC en DB).
type Appointment struct {
	ID          string
	PatientID   string
	ScheduledAt time.Time
	Reason      string
	Fee         decimal.Decimal
	CreatedAt   time.Time
}

// Prescription receta emitida al paciente.
type Prescription struct {
	ID        string
	PatientID string
	IssuedAt  time.Time
	Content   string // líneas de medicación, texto libre
	CreatedAt time.Time
}

// Operation intervención registrada, con sus detalles.
type Operation struct {
	ID          string
	PatientID   string
	PerformedAt time.Time
	Kind        string
	Details     []OperationDetail
	CreatedAt   time.Time
}

// OperationDetail línea de detalle de una intervención.
type OperationDetail struct {
	ID          string
	OperationID string
	Description string
}

// Xray estudio de imagen asociado al paciente.
type Xray struct {
	ID        string
	PatientID string
	Kind      string
	TakenAt   time.Time
	ImageURL  string
	CreatedAt time.Time
}
