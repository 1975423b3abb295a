package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// PatientRequest cuerpo de creación/actualización de paciente.
type PatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date,omitempty"` // YYYY-MM-DD
	Sex       string `json:"sex,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
}

// PatientResponse representación básica de un paciente.
type PatientResponse struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Sex       string    `json:"sex,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PatientTinyResponse proyección nombre/apellido.
type PatientTinyResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PatientNameResponse proyección id + nombre completo (autocompletado).
type PatientNameResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PatientListResponse listado paginado.
type PatientListResponse struct {
	Items []PatientResponse `json:"items"`
	Meta  PageResponse      `json:"meta"`
}

// AppointmentResponse cita con su valor de consulta.
type AppointmentResponse struct {
	ID          string          `json:"id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Reason      string          `json:"reason,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
}

// PrescriptionResponse receta emitida.
type PrescriptionResponse struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
	Content  string    `json:"content"`
}

// OperationResponse intervención con sus detalles.
type OperationResponse struct {
	ID          string    `json:"id"`
	PerformedAt time.Time `json:"performed_at"`
	Kind        string    `json:"kind"`
	Details     []string  `json:"details,omitempty"`
}

// XrayResponse estudio de imagen.
type XrayResponse struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	TakenAt  time.Time `json:"taken_at"`
	ImageURL string    `json:"image_url,omitempty"`
}

// PatientDetailResponse paciente con sub-recursos clínicos.
type PatientDetailResponse struct {
	PatientResponse
	Appointments  []AppointmentResponse  `json:"appointments"`
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Operations    []OperationResponse    `json:"operations"`
	Xrays         []XrayResponse         `json:"xrays"`
}

// ToPatientResponse mapea la entidad al DTO.
func ToPatientResponse(p *entity.Patient) PatientResponse {
	out := PatientResponse{
		ID:        p.ID,
		DoctorID:  p.DoctorID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Sex:       p.Sex,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
	}
	if p.BirthDate != nil {
		out.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return out
}

// ToPatientDetailResponse mapea la entidad detallada al DTO.
func ToPatientDetailResponse(d *entity.PatientDetail) PatientDetailResponse {
	out := PatientDetailResponse{
		PatientResponse: ToPatientResponse(&d.Patient),
		Appointments:    make([]AppointmentResponse, 0, len(d.Appointments)),
		Prescriptions:   make([]PrescriptionResponse, 0, len(d.Prescriptions)),
		Operations:      make([]OperationResponse, 0, len(d.Operations)),
		Xrays:           make([]XrayResponse, 0, len(d.Xrays)),
	}
	for _, a := range d.Appointments {
		out.Appointments = append(out.Appointments, AppointmentResponse{
			ID: a.ID, ScheduledAt: a.ScheduledAt, Reason: a.Reason, Fee: a.Fee,
		})
	}
	for _, p := range d.Prescriptions {
		out.Prescriptions = append(out.Prescriptions, PrescriptionResponse{
			ID: p.ID, IssuedAt: p.IssuedAt, Content: p.Content,
		})
	}
	for _, op := range d.Operations {
		details := make([]string, 0, len(op.Details))
		for _, det := range op.Details {
			details = append(details, det.Description)
		}
		out.Operations = append(out.Operations, OperationResponse{
			ID: op.ID, PerformedAt: op.PerformedAt, Kind: op.Kind, Details: details,
		})
	}
	for _, x := range d.Xrays {
		out.Xrays = append(out.Xrays, XrayResponse{
			ID: x.ID, Kind: x.Kind, TakenAt: x.TakenAt, ImageURL: x.ImageURL,
		})
	}
	return out
}
