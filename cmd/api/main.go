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

	"github.com/jhoicas/remisiones-api/internal/application/guias"
	infraregistry "github.com/jhoicas/remisiones-api/internal/infrastructure/registry"
	infrasunat "github.com/jhoicas/remisiones-api/internal/infrastructure/sunat"
	"github.com/jhoicas/remisiones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/remisiones-api/internal/interfaces/http"
	"github.com/jhoicas/remisiones-api/internal/domain/remision"
	"github.com/jhoicas/remisiones-api/pkg/config"
	"github.com/jhoicas/remisiones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	partyRepo := postgres.NewPartyRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	guiaRepo := postgres.NewGuiaRepository(pool)

	registryClient := infraregistry.New(cfg.Registry)
	submitter := infrasunat.NewSubmitter(cfg.SUNAT)

	sessions := guias.NewSessionStore()
	draftUC := guias.NewDraftUseCase(sessions, partyRepo, vehicleRepo, log)
	lookupUC := guias.NewLookupUseCase(sessions, registryClient, log)
	submitUC := guias.NewSubmitUseCase(sessions, submitter, guiaRepo, remision.Emitter{
		RUC:   cfg.SUNAT.RUCEmisor,
		Serie: cfg.SUNAT.Serie,
	}, log)
	partnerUC := guias.NewPartnerUseCase(partyRepo, vehicleRepo)

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
		Title:    "Remisiones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DraftUC:   draftUC,
		LookupUC:  lookupUC,
		SubmitUC:  submitUC,
		PartnerUC: partnerUC,
		JWTSecret: cfg.JWT.Secret,
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
