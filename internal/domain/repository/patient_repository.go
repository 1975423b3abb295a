package repository

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// PatientRepository puerto de persistencia para pacientes. Todas las
// operaciones filtran por teamID (doctor_id); un registro de otro tenant se
// comporta como inexistente.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	// List pagina ordenando del más reciente al más antiguo. search aplica
	// substring case-insensitive sobre nombre O apellido. Devuelve el total
	// sin paginar para los metadatos de página.
	List(ctx context.Context, teamID, search string, limit, offset int) ([]*entity.Patient, int, error)
	GetByID(ctx context.Context, teamID, id string) (*entity.Patient, error)
	// Detail carga el paciente con citas, recetas, intervenciones (con
	// detalles) y estudios de imagen.
	Detail(ctx context.Context, teamID, id string) (*entity.PatientDetail, error)
	// Update y Delete devuelven domain.ErrNotFound si el registro no existe
	// o pertenece a otro tenant.
	Update(ctx context.Context, p *entity.Patient) error
	Delete(ctx context.Context, teamID, id string) error
	// Tiny proyección nombre/apellido solamente.
	Tiny(ctx context.Context, teamID, id string) (firstName, lastName string, err error)
	// SearchNames autocompletado: pacientes cuyo nombre o apellido contiene q.
	SearchNames(ctx context.Context, teamID, q string, limit int) ([]*entity.Patient, error)
	// GetPrescription receta del paciente, scoped por tenant vía el paciente.
	GetPrescription(ctx context.Context, teamID, patientID, prescriptionID string) (*entity.Prescription, error)
}
