// Package pdf implementa la generación de la receta médica imprimible.
//
// Layout de la página A5 (apaisada vertical, formato recetario):
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Consultorio + fecha de emisión       │
//	│  ───────────────────────────────────────────  │
//	│  PACIENTE: Apellido Nombre | edad | sexo      │
//	│  ───────────────────────────────────────────  │
//	│  Rp/                                          │
//	│  CONTENIDO: líneas de medicación              │
//	│  ───────────────────────────────────────────  │
//	│  FOOTER: firma del médico                     │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/medisuite/consultorio-api/internal/application/usecase"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 96}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.PrescriptionPDFGenerator = (*MarotoPrescriptionGenerator)(nil)

// MarotoPrescriptionGenerator implementa usecase.PrescriptionPDFGenerator
// usando Maroto v2.
type MarotoPrescriptionGenerator struct {
	clinicName string
}

// NewMarotoPrescriptionGenerator construye el generador. clinicName encabeza
// el recetario.
func NewMarotoPrescriptionGenerator(clinicName string) *MarotoPrescriptionGenerator {
	return &MarotoPrescriptionGenerator{clinicName: clinicName}
}

// GeneratePrescriptionPDF genera el PDF de la receta y devuelve sus bytes.
func (g *MarotoPrescriptionGenerator) GeneratePrescriptionPDF(
	_ context.Context,
	patient *entity.Patient,
	prescription *entity.Prescription,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Receta médica", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.clinicName, prescription.IssuedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(patientRow(patient, prescription.IssuedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Contenido de la receta, línea por línea
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Rp/", props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 2}),
	)))
	for _, r := range contentRows(prescription.Content) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(12))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar receta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del consultorio (izq) y fecha de emisión (der).
func headerRow(clinicName string, issuedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(clinicName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Receta médica", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+issuedAt.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// patientRow: datos del paciente.
func patientRow(patient *entity.Patient, issuedAt time.Time) core.Row {
	info := fmt.Sprintf("Sexo: %s", nonEmpty(patient.Sex, "—"))
	if patient.BirthDate != nil {
		info = fmt.Sprintf("Edad: %d años   |   %s", ageAt(*patient.BirthDate, issuedAt), info)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(patient.LastName+" "+patient.FirstName, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6,
			}),
			text.New(info, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// contentRows: una fila por línea de medicación.
func contentRows(content string) []core.Row {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		result = append(result, row.New(7).Add(
			col.New(12).Add(text.New(l, props.Text{Size: 10, Top: 1, Left: 4})),
		))
	}
	return result
}

// signatureRow: línea de firma del médico.
func signatureRow() core.Row {
	return row.New(12).Add(
		col.New(7),
		col.New(5).Add(
			text.New("_______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 1, Color: colorGray,
			}),
			text.New("Firma y sello del médico", props.Text{
				Size: 8, Align: align.Center, Top: 7, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ageAt edad cumplida a la fecha de referencia.
func ageAt(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.YearDay() < birth.YearDay() {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}
