// Package export serializa el expediente completo de un paciente a XML para
// intercambio con otros sistemas (portabilidad del expediente).
package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/medisuite/consultorio-api/internal/application/usecase"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

var _ usecase.DossierExporter = (*XMLDossierExporter)(nil)

// XMLDossierExporter implementa usecase.DossierExporter con etree.
type XMLDossierExporter struct{}

// NewXMLDossierExporter construye el exportador.
func NewXMLDossierExporter() *XMLDossierExporter {
	return &XMLDossierExporter{}
}

// ExportDossier genera el documento <PatientDossier> con los datos
// demográficos y los sub-recursos clínicos del paciente.
func (e *XMLDossierExporter) ExportDossier(detail *entity.PatientDetail) ([]byte, error) {
	if detail == nil {
		return nil, fmt.Errorf("export: expediente vacío")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("PatientDossier")
	root.CreateAttr("generatedAt", time.Now().UTC().Format(time.RFC3339))

	patient := root.CreateElement("Patient")
	patient.CreateAttr("id", detail.ID)
	patient.CreateElement("FirstName").SetText(detail.FirstName)
	patient.CreateElement("LastName").SetText(detail.LastName)
	if detail.BirthDate != nil {
		patient.CreateElement("BirthDate").SetText(detail.BirthDate.Format("2006-01-02"))
	}
	if detail.Sex != "" {
		patient.CreateElement("Sex").SetText(detail.Sex)
	}
	if detail.Phone != "" {
		patient.CreateElement("Phone").SetText(detail.Phone)
	}
	if detail.Email != "" {
		patient.CreateElement("Email").SetText(detail.Email)
	}
	if detail.Address != "" {
		patient.CreateElement("Address").SetText(detail.Address)
	}

	appointments := root.CreateElement("Appointments")
	for _, a := range detail.Appointments {
		el := appointments.CreateElement("Appointment")
		el.CreateAttr("id", a.ID)
		el.CreateElement("ScheduledAt").SetText(a.ScheduledAt.Format(time.RFC3339))
		if a.Reason != "" {
			el.CreateElement("Reason").SetText(a.Reason)
		}
		el.CreateElement("Fee").SetText(a.Fee.String())
	}

	prescriptions := root.CreateElement("Prescriptions")
	for _, p := range detail.Prescriptions {
		el := prescriptions.CreateElement("Prescription")
		el.CreateAttr("id", p.ID)
		el.CreateElement("IssuedAt").SetText(p.IssuedAt.Format(time.RFC3339))
		el.CreateElement("Content").SetText(p.Content)
	}

	operations := root.CreateElement("Operations")
	for _, op := range detail.Operations {
		el := operations.CreateElement("Operation")
		el.CreateAttr("id", op.ID)
		el.CreateElement("PerformedAt").SetText(op.PerformedAt.Format(time.RFC3339))
		el.CreateElement("Kind").SetText(op.Kind)
		details := el.CreateElement("Details")
		for _, det := range op.Details {
			details.CreateElement("Detail").SetText(det.Description)
		}
	}

	xrays := root.CreateElement("Xrays")
	for _, x := range detail.Xrays {
		el := xrays.CreateElement("Xray")
		el.CreateAttr("id", x.ID)
		el.CreateElement("Kind").SetText(x.Kind)
		el.CreateElement("TakenAt").SetText(x.TakenAt.Format(time.RFC3339))
		if x.ImageURL != "" {
			el.CreateElement("ImageURL").SetText(x.ImageURL)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: serializar expediente: %w", err)
	}
	return out, nil
}
