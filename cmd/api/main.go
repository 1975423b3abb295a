package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/medisuite/consultorio-api/docs"
	"github.com/medisuite/consultorio-api/internal/application/access"
	"github.com/medisuite/consultorio-api/internal/application/auth"
	"github.com/medisuite/consultorio-api/internal/application/usecase"
	infraexport "github.com/medisuite/consultorio-api/internal/infrastructure/export"
	infrapdf "github.com/medisuite/consultorio-api/internal/infrastructure/pdf"
	"github.com/medisuite/consultorio-api/internal/infrastructure/postgres"
	httpRouter "github.com/medisuite/consultorio-api/internal/interfaces/http"
	"github.com/medisuite/consultorio-api/internal/realtime"
	"github.com/medisuite/consultorio-api/pkg/config"
	"github.com/medisuite/consultorio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	waitingRepo := postgres.NewWaitingRoomRepository(pool)
	prefRepo := postgres.NewPreferenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Gate + caché de permisos: los casos de uso invalidan por tenant tras
	// cada mutación de roles.
	gate := access.NewGate(roleRepo, access.NewMemoryCache())

	hub := realtime.NewHub(cfg.Realtime.BufferSize)

	authUC := auth.NewAuthUseCase(txRunner, userRepo, gate.Cache(), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	roleUC := usecase.NewRoleUseCase(gate, txRunner, roleRepo, userRepo)
	patientUC := usecase.NewPatientUseCase(gate, patientRepo)
	documentUC := usecase.NewDocumentUseCase(
		gate, patientRepo,
		infrapdf.NewMarotoPrescriptionGenerator(cfg.App.Name),
		infraexport.NewXMLDossierExporter(),
	)
	waitingUC := usecase.NewWaitingRoomUseCase(gate, txRunner, waitingRepo, patientRepo, hub)
	preferenceUC := usecase.NewPreferenceUseCase(gate, prefRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Consultorio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		PatientUC:     patientUC,
		DocumentUC:    documentUC,
		RoleUC:        roleUC,
		WaitingRoomUC: waitingUC,
		PreferenceUC:  preferenceUC,
		Hub:           hub,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
