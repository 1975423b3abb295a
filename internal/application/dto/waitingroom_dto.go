package dto

import "time"

// IncrementRequest cuerpo de POST /api/waiting-room/increment.
type IncrementRequest struct {
	PatientID string `json:"patient_id"`
}

// WaitingRoomResponse estado actual del contador.
type WaitingRoomResponse struct {
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WaitingEntryResponse paciente listado en la sala de espera.
type WaitingEntryResponse struct {
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Since       time.Time `json:"since"`
}

// PatientAddedEvent payload del evento realtime `patient-added`.
type PatientAddedEvent struct {
	PatientID string `json:"patient_id"`
	Count     int    `json:"count"`
}

// WaitingRoomEvent payload genérico de eventos de la sala (ej.
// `waiting-room-cleared`): sólo el contador, sin paciente asociado.
type WaitingRoomEvent struct {
	Count int `json:"count"`
}
