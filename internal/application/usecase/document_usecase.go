package usecase

import (
	"context"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
	"github.com/medisuite/consultorio-api/internal/domain/repository"
)

// PrescriptionPDFGenerator genera el documento imprimible de una receta.
// Lo implementa infrastructure/pdf.
type PrescriptionPDFGenerator interface {
	GeneratePrescriptionPDF(ctx context.Context, patient *entity.Patient, prescription *entity.Prescription) ([]byte, error)
}

// DossierExporter serializa el expediente completo de un paciente.
// Lo implementa infrastructure/export.
type DossierExporter interface {
	ExportDossier(detail *entity.PatientDetail) ([]byte, error)
}

// DocumentUseCase documentos derivados del expediente: receta en PDF y
// exportación XML del expediente completo.
type DocumentUseCase struct {
	gate     *access.Gate
	repo     repository.PatientRepository
	pdf      PrescriptionPDFGenerator
	exporter DossierExporter
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(gate *access.Gate, repo repository.PatientRepository, pdf PrescriptionPDFGenerator, exporter DossierExporter) *DocumentUseCase {
	return &DocumentUseCase{gate: gate, repo: repo, pdf: pdf, exporter: exporter}
}

// PrescriptionPDF genera la receta imprimible. Requiere acceso a detalle.
func (uc *DocumentUseCase) PrescriptionPDF(ctx context.Context, id access.Identity, patientID, prescriptionID string) ([]byte, error) {
	teamID, err := uc.gate.CheckUserRole(ctx, id, permsDetailPatient...)
	if err != nil {
		return nil, err
	}
	patient, err := uc.repo.GetByID(ctx, teamID, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	prescription, err := uc.repo.GetPrescription(ctx, teamID, patientID, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.GeneratePrescriptionPDF(ctx, patient, prescription)
}

// ExportXML serializa el expediente completo del paciente.
func (uc *DocumentUseCase) ExportXML(ctx context.Context, id access.Identity, patientID string) ([]byte, error) {
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
	return uc.exporter.ExportDossier(detail)
}
