package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/infrastructure/graoapi"
	infrapdf "github.com/jhoicas/graoagrao-estoque/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/graoagrao-estoque/internal/interfaces/http"
	"github.com/jhoicas/graoagrao-estoque/internal/scheduler"
	"github.com/jhoicas/graoagrao-estoque/pkg/config"
	"github.com/jhoicas/graoagrao-estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("iniciando BFF de movimientos de stock")

	// API de inventario: movimientos y catálogo
	api := graoapi.NewClient(cfg.Upstream, log.Zerolog())

	// Borradores en memoria + limpieza periódica de los abandonados
	drafts := movement.NewRegistry(api, log.Zerolog())
	sched := scheduler.New(drafts, cfg.Drafts.SweepSchedule, cfg.Drafts.MaxIdle(), log.Zerolog())
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Upstream.Timeout() + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "drafts": drafts.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Drafts:  drafts,
		Catalog: api,
		Sheets:  infrapdf.NewSheetGenerator(),
		Log:     log.Zerolog(),
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
	sched.Stop()

	log.Info().Int("drafts_descartados", drafts.Len()).Msg("aplicación detenida")
}
