package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"recipehub/media-api/internal/config"
	domain "recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/audit"
	"recipehub/media-api/internal/infrastructure/auth"
	"recipehub/media-api/internal/infrastructure/crontab"
	"recipehub/media-api/internal/infrastructure/database"
	"recipehub/media-api/internal/infrastructure/derivative"
	"recipehub/media-api/internal/infrastructure/logger"
	"recipehub/media-api/internal/infrastructure/observability"
	repo "recipehub/media-api/internal/infrastructure/repository/media"
	"recipehub/media-api/internal/infrastructure/storage"
	"recipehub/media-api/internal/interfaces/httpserver"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.4 init --dir ./,../../internal/interfaces/httpserver/handlers,../../internal/interfaces/httpserver/routes/v1 --generalInfo server.go --output ../../docs/swagger --parseDependency --parseInternal

// @title Recipe Media API
// @version 1.0
// @description Media ingestion and storage for recipes
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	cron       *crontab.Crontab
	auth       *auth.Validator
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cron *crontab.Crontab, authValidator *auth.Validator, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cron:       cron,
		auth:       authValidator,
		log:        log,
	}
}

// Start runs the HTTP server and the cleanup scheduler until ctx is cancelled
// or either of them fails.
func (a *Application) Start(ctx context.Context) error {
	defer a.auth.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.httpServer.Run(ctx) })
	g.Go(func() error { return a.cron.Run(ctx) })
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(newDatabaseConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if err := database.AttachReplica(db, newDatabaseConfig(cfg)); err != nil {
		log.Fatal().Err(err).Msg("attach read replica")
	}

	backends, err := storage.NewBackends(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth")
	}

	mediaService := domain.NewService(
		cfg.MediaPolicy(),
		repo.NewRepository(db),
		backends.Local,
		backends.Object,
		derivative.NewGenerator(cfg, log),
		derivative.NewMetadataExtractor(),
		audit.NewLogger(db, log),
		log,
	)

	httpServer := httpserver.New(cfg, log, httpserver.Dependencies{
		Service:  mediaService,
		Backends: backends,
		DB:       db,
		Auth:     authValidator,
	})
	cron := crontab.NewCrontab(cfg, mediaService, log)
	app := NewApplication(httpServer, cron, authValidator, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.GetDatabaseWriteDSN(),
		ReplicaDSN:      cfg.GetDatabaseReadDSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
