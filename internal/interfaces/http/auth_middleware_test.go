package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/medisuite/consultorio-api/internal/interfaces/http"
	"github.com/medisuite/consultorio-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

// buildApp monta una ruta protegida que devuelve la identidad resuelta.
func buildApp() *fiber.App {
	app := fiber.New()
	app.Get("/protegida", apihttp.AuthMiddleware(testSecret), func(c *fiber.Ctx) error {
		id := apihttp.GetIdentity(c)
		return c.JSON(fiber.Map{
			"user_id":   id.UserID,
			"doctor_id": id.DoctorID,
			"role":      id.Role,
		})
	})
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Token válido
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValido_ResuelveIdentidad(t *testing.T) {
	app := buildApp()

	token, err := jwt.Generate(testSecret, "user-1", "", "doctor", "consultorio-api", 60)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "doctor", body["role"])
	assert.Empty(t, body["doctor_id"], "el médico no lleva doctor_id en sus claims")
}

// La enfermera carga el doctor_id de su médico dueño en el token.
func TestAuthMiddleware_TokenEnfermera_CargaDoctorID(t *testing.T) {
	app := buildApp()

	token, err := jwt.Generate(testSecret, "nurse-1", "doctor-1", "nurse", "consultorio-api", 60)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "nurse-1", body["user_id"])
	assert.Equal(t, "doctor-1", body["doctor_id"])
	assert.Equal(t, "nurse", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Unauthorized(t *testing.T) {
	app := buildApp()

	req := httptest.NewRequest("GET", "/protegida", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_HeaderMalformado_Unauthorized(t *testing.T) {
	app := buildApp()

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer "} {
		req := httptest.NewRequest("GET", "/protegida", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header: %q", header)
	}
}

func TestAuthMiddleware_FirmaIncorrecta_Unauthorized(t *testing.T) {
	app := buildApp()

	token, err := jwt.Generate("otro-secreto", "user-1", "", "doctor", "consultorio-api", 60)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Unauthorized(t *testing.T) {
	app := buildApp()

	token, err := jwt.Generate(testSecret, "user-1", "", "doctor", "consultorio-api", -1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Round-trip del paquete jwt
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-9", "doctor-3", "nurse", "consultorio-api", 5)
	require.NoError(t, err)

	userID, doctorID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
	assert.Equal(t, "doctor-3", doctorID)
	assert.Equal(t, "nurse", role)
}

func TestJWT_SecretVacio_Error(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "", "doctor", "consultorio-api", 5)
	assert.Error(t, err)

	_, _, _, err = jwt.Parse("", "cualquier-cosa")
	assert.Error(t, err)
}

func TestJWT_ExpiracionSeRespeta(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-1", "", "doctor", "consultorio-api", 0)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, _, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err, "un token con expiración en el pasado no valida")
}
