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
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Categorias-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/storage"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/xmltree"
	httpRouter "github.com/jhoicas/Categorias-api/internal/interfaces/http"
	"github.com/jhoicas/Categorias-api/pkg/config"
	"github.com/jhoicas/Categorias-api/pkg/logger"
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	policy, err := usecase.ParseDeletePolicy(cfg.Category.DeletePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de borrado")
	}

	categoryUC := usecase.NewCategoryUseCase(backend.Categories, backend.Tx, policy)
	log.Info().Str("delete_policy", string(categoryUC.Policy())).Msg("política de borrado de categorías")
	itemUC := usecase.NewItemUseCase(backend.Items)
	categoryItemUC := usecase.NewCategoryItemUseCase(backend.Categories, backend.Items, backend.CategoryItems)
	reportUC := usecase.NewReportUseCase(
		categoryUC, backend.CategoryItems,
		infrapdf.NewMarotoTreePDFGenerator("Árbol de categorías"),
		xmltree.NewCodec(),
	)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: las escrituras no requieren autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.AccessLog(log))

	var metrics *httpRouter.Metrics
	if cfg.Metrics.Enabled {
		metrics = httpRouter.NewMetrics("categorias")
		app.Use(metrics.Middleware())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "Categorías API",
		}))
	} else {
		log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("sin documentación OpenAPI")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:     categoryUC,
		CategoryItemUC: categoryItemUC,
		ItemUC:         itemUC,
		ReportUC:       reportUC,
		JWTSecret:      cfg.JWT.Secret,
		Service:        cfg.App.Name,
		Metrics:        metrics,
		HealthCheck:    backend.Ping,
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
