package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/dto"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
	"github.com/medisuite/consultorio-api/internal/domain"
	"github.com/medisuite/consultorio-api/internal/domain/entity"
)

func buildPatientUC() (*usecase.PatientUseCase, *fakePatientRepo, *fakePermSource) {
	repo := newFakePatientRepo()
	src := newFakePermSource()
	gate := newTestGate(src)
	return usecase.NewPatientUseCase(gate, repo), repo, src
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// El nombre se normaliza a mayúscula inicial al ingreso.
func TestPatientCreate_NormalizaNombre(t *testing.T) {
	uc, _, _ := buildPatientUC()

	out, err := uc.Create(context.Background(), asDoctor(doctorA), dto.PatientRequest{
		FirstName: "jean", LastName: "dupont",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jean", out.FirstName)
	assert.Equal(t, "Dupont", out.LastName)
	assert.Equal(t, doctorA, out.DoctorID, "el paciente queda en el tenant del llamador")
}

func TestPatientCreate_SinNombre_Invalido(t *testing.T) {
	uc, _, _ := buildPatientUC()

	_, err := uc.Create(context.Background(), asDoctor(doctorA), dto.PatientRequest{FirstName: "Jean"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPatientCreate_FechaNacimientoInvalida(t *testing.T) {
	uc, _, _ := buildPatientUC()

	_, err := uc.Create(context.Background(), asDoctor(doctorA), dto.PatientRequest{
		FirstName: "Jean", LastName: "Dupont", BirthDate: "31/12/1980",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el formato de fecha es YYYY-MM-DD")
}

// La enfermera con permiso de inserción registra en el tenant de su médico.
func TestPatientCreate_EnfermeraConPermiso(t *testing.T) {
	uc, _, src := buildPatientUC()
	src.grant(nurseA, entity.PermInsertPatient)

	out, err := uc.Create(context.Background(), asNurse(nurseA, doctorA), dto.PatientRequest{
		FirstName: "María", LastName: "García",
	})
	require.NoError(t, err)
	assert.Equal(t, doctorA, out.DoctorID)
}

func TestPatientCreate_EnfermeraSinPermiso_Forbidden(t *testing.T) {
	uc, _, _ := buildPatientUC()

	_, err := uc.Create(context.Background(), asNurse(nurseA, doctorA), dto.PatientRequest{
		FirstName: "María", LastName: "García",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre tenants
// ──────────────────────────────────────────────────────────────────────────────

// Un paciente de otro tenant es indistinguible de uno inexistente.
func TestPatient_AislamientoEntreTenants(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	ctx := context.Background()
	p := repo.seed(doctorA, "Jean", "Dupont")

	_, err := uc.Show(ctx, asDoctor(doctorB), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, asDoctor(doctorB), p.ID, dto.PatientRequest{FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctx, asDoctor(doctorB), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El dueño sí lo ve.
	out, err := uc.Show(ctx, asDoctor(doctorA), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, out.ID)
}

func TestPatientList_SoloElTenant(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	repo.seed(doctorA, "Jean", "Dupont")
	repo.seed(doctorA, "María", "García")
	repo.seed(doctorB, "Ajeno", "Ajeno")

	out, err := uc.List(context.Background(), asDoctor(doctorA), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Meta.Total)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Meta.PerPage, "per_page por defecto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

// "dup" encuentra a Dupont sin importar mayúsculas.
func TestPatientList_BusquedaSubstring(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	repo.seed(doctorA, "Jean", "Dupont")
	repo.seed(doctorA, "María", "García")

	out, err := uc.List(context.Background(), asDoctor(doctorA), "dup", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Dupont", out.Items[0].LastName)
}

func TestSearchNames_Autocompletado(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	p := repo.seed(doctorA, "Jean", "Dupont")
	repo.seed(doctorB, "Dupont", "Ajeno")

	out, err := uc.SearchNames(context.Background(), asDoctor(doctorA), "dup")
	require.NoError(t, err)
	require.Len(t, out, 1, "sólo pacientes del tenant")
	assert.Equal(t, p.ID, out[0].ID)
	assert.Equal(t, "Dupont Jean", out[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detail / Tiny / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestPatientDetail_Inexistente_NotFound(t *testing.T) {
	uc, _, _ := buildPatientUC()

	_, err := uc.Detail(context.Background(), asDoctor(doctorA), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatientTiny_DevuelveSoloNombre(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	p := repo.seed(doctorA, "Jean", "Dupont")

	out, err := uc.Tiny(context.Background(), asDoctor(doctorA), p.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.PatientTinyResponse{FirstName: "Jean", LastName: "Dupont"}, out)
}

func TestPatientDelete_OK(t *testing.T) {
	uc, repo, _ := buildPatientUC()
	ctx := context.Background()
	p := repo.seed(doctorA, "Jean", "Dupont")

	require.NoError(t, uc.Delete(ctx, asDoctor(doctorA), p.ID))

	_, err := uc.Show(ctx, asDoctor(doctorA), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin identidad no hay acceso a ninguna operación.
func TestPatient_SinIdentidad_Unauthorized(t *testing.T) {
	uc, _, _ := buildPatientUC()

	_, err := uc.List(context.Background(), access.Identity{}, "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
