package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// Listas de permisos aceptables por acción (semántica OR; superadmin al
// frente como comodín universal).
var (
	permsListPatient = []string{
		entity.PermSuperadmin, entity.PermAccessPatient, entity.PermInsertPatient,
		entity.PermUpdatePatient, entity.PermDeletePatient, entity.PermDetailPatient,
	}
	permsInsertPatient = []string{entity.PermSuperadmin, entity.PermInsertPatient, entity.PermAccessPatient}
	permsDetailPatient = []string{entity.PermSuperadmin, entity.PermDetailPatient, entity.PermAccessPatient}
	permsShowPatient   = []string{entity.PermSuperadmin, entity.PermAccessPatient}
	permsUpdatePatient = []string{entity.PermSuperadmin, entity.PermUpdatePatient, entity.PermAccessPatient}
	permsDeletePatient = []string{entity.PermSuperadmin, entity.PermDeletePatient, entity.PermAccessPatient}
)

// titleCaser normaliza la capitalización de nombres al ingreso (ej. "dupont"
// -> "Dupont"); la búsqueda es case-insensitive así que no afecta el match.
var titleCaser = cases.Title(language.Spanish)

// PatientUseCase registro de pacientes scoped por tenant. Toda operación pasa
// por el gate primero y filtra por el tenant resuelto.
type PatientUseCase struct {
	gate *access.Gate
	repo repository.PatientRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(gate *access.Gate, repo repository.PatientRepository) *PatientUseCase {
	return &PatientUseCase{gate: gate, repo: repo}
}

// List pacientes del tenant, paginado, del más reciente al más antiguo.
// search filtra por substring case-insensitive sobre nombre O apellido.
func (uc *PatientUseCase) List(ctx context.Context, id access.Identity, search string, page dto.PageRequest) (*dto.PatientListResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsListPatient...)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	patients, total, err := uc.repo.List(ctx, teamID, search, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.PatientResponse, 0, len(patients))
	for _, p := range patients {
		items = append(items, dto.ToPatientResponse(p))
	}
	return &dto.PatientListResponse{
		Items: items,
		Meta:  dto.PageResponse{Page: page.Page, PerPage: page.PerPage, Total: total},
	}, nil
}

// Create registra un paciente en el tenant del llamador.
func (uc *PatientUseCase) Create(ctx context.Context, id access.Identity, in dto.PatientRequest) (*dto.PatientResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsInsertPatient...)
	if err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Patient{
		ID:        uuid.New().String(),
		DoctorID:  teamID,
		FirstName: titleCaser.String(in.FirstName),
		LastName:  titleCaser.String(in.LastName),
		Sex:       in.Sex,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		p.BirthDate = &bd
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.ToPatientResponse(p)
	return &out, nil
}

// Detail paciente con sub-recursos clínicos cargados.
func (uc *PatientUseCase) Detail(ctx context.Context, id access.Identity, patientID string) (*dto.PatientDetailResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsDetailPatient...)
	if err != nil {
		return nil, err
	}
	detail, err := uc.repo.Detail(ctx, teamID, patientID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToPatientDetailResponse(detail)
	return &out, nil
}

// Show lectura liviana de un paciente.
func (uc *PatientUseCase) Show(ctx context.Context, id access.Identity, patientID string) (*dto.PatientResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsShowPatient...)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, teamID, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToPatientResponse(p)
	return &out, nil
}

// Update actualiza los datos demográficos. ErrNotFound si el registro no
// pertenece al tenant.
func (uc *PatientUseCase) Update(ctx context.Context, id access.Identity, patientID string, in dto.PatientRequest) (*dto.PatientResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsUpdatePatient...)
	if err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(ctx, teamID, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.FirstName = titleCaser.String(in.FirstName)
	p.LastName = titleCaser.String(in.LastName)
	p.Sex = in.Sex
	p.Phone = in.Phone
	p.Email = in.Email
	p.Address = in.Address
	p.BirthDate = nil
	if in.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		p.BirthDate = &bd
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("patient_id", p.ID).Str("team_id", teamID).Interface("payload", in).Msg("paciente actualizado")
	out := dto.ToPatientResponse(p)
	return &out, nil
}

// Delete elimina el paciente del tenant. ErrNotFound si no pertenece.
func (uc *PatientUseCase) Delete(ctx context.Context, id access.Identity, patientID string) error {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsDeletePatient...)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, teamID, patientID)
}

// Tiny proyección nombre/apellido. Sólo requiere identidad (resolución de
// tenant), sin permiso específico.
func (uc *PatientUseCase) Tiny(ctx context.Context, id access.Identity, patientID string) (*dto.PatientTinyResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	first, last, err := uc.repo.Tiny(ctx, teamID, patientID)
	if err != nil {
		return nil, err
	}
	return &dto.PatientTinyResponse{FirstName: first, LastName: last}, nil
}

// SearchNames autocompletado por nombre para la sala de espera.
func (uc *PatientUseCase) SearchNames(ctx context.Context, id access.Identity, q string) ([]dto.PatientNameResponse, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id)
	if err != nil {
		return nil, err
	}
	patients, err := uc.repo.SearchNames(ctx, teamID, q, 10)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientNameResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, dto.PatientNameResponse{ID: p.ID, Name: p.LastName + " " + p.FirstName})
	}
	return out, nil
}
