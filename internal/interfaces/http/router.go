package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisuite/consultorio-api/internal/application/auth"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
	"github.com/medisuite/consultorio-api/internal/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	PatientUC     *usecase.PatientUseCase
	DocumentUC    *usecase.DocumentUseCase
	RoleUC        *usecase.RoleUseCase
	WaitingRoomUC *usecase.WaitingRoomUseCase
	PreferenceUC  *usecase.PreferenceUseCase
	Hub           *realtime.Hub
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Realtime (el handshake lleva el canal por query; sin Bearer, igual que
	// el resto del transporte de eventos best-effort)
	realtimeHandler := NewRealtimeHandler(deps.Hub)
	app.Get("/ws", realtimeHandler.Upgrade, realtimeHandler.Serve())

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Patients (protegido; permisos por acción en el gate)
	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC, deps.DocumentUC)
	patients.Get("/", patientHandler.List)
	patients.Post("/", patientHandler.Create)
	patients.Get("/search", patientHandler.Search)
	patients.Get("/:id", patientHandler.Show)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)
	patients.Get("/:id/details", patientHandler.Detail)
	patients.Get("/:id/tiny", patientHandler.Tiny)
	patients.Get("/:id/prescriptions/:pid/pdf", patientHandler.PrescriptionPDF)
	patients.Get("/:id/export.xml", patientHandler.ExportXML)

	// Roles (protegido; sólo médicos, lo verifica el gate)
	roles := protected.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", roleHandler.Create)
	roles.Get("/", roleHandler.List)
	roles.Post("/grant", roleHandler.Grant)
	roles.Get("/:name/permissions", roleHandler.Permissions)
	roles.Delete("/:id", roleHandler.Delete)
	protected.Get("/nurses", roleHandler.Nurses)

	// Waiting room (protegido)
	waiting := protected.Group("/waiting-room")
	waitingHandler := NewWaitingRoomHandler(deps.WaitingRoomUC)
	waiting.Get("/", waitingHandler.Get)
	waiting.Post("/increment", waitingHandler.Increment)
	waiting.Post("/clear", waitingHandler.Clear)
	waiting.Get("/entries", waitingHandler.Entries)

	// Preferences (protegido)
	preferences := protected.Group("/preferences")
	preferenceHandler := NewPreferenceHandler(deps.PreferenceUC)
	preferences.Get("/", preferenceHandler.Get)
	preferences.Put("/", preferenceHandler.Update)
}
