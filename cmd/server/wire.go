//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"recipehub/media-api/internal/config"
	domain "recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/audit"
	"recipehub/media-api/internal/infrastructure/auth"
	"recipehub/media-api/internal/infrastructure/crontab"
	"recipehub/media-api/internal/infrastructure/database"
	"recipehub/media-api/internal/infrastructure/derivative"
	"recipehub/media-api/internal/infrastructure/logger"
	repo "recipehub/media-api/internal/infrastructure/repository/media"
	"recipehub/media-api/internal/infrastructure/storage"
	"recipehub/media-api/internal/interfaces/httpserver"
	"recipehub/media-api/internal/interfaces/httpserver/handlers"
)

var mediaSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(domain.Repository), new(*repo.Repository)),
	storage.NewBackends,
	provideLocalStore,
	provideObjectStore,
	derivative.NewGenerator,
	wire.Bind(new(domain.ThumbnailGenerator), new(*derivative.Generator)),
	derivative.NewMetadataExtractor,
	wire.Bind(new(domain.MetadataExtractor), new(*derivative.MetadataExtractor)),
	audit.NewLogger,
	wire.Bind(new(domain.AuditLogger), new(*audit.Logger)),
	providePolicy,
	domain.NewService,
	wire.Bind(new(handlers.MediaService), new(*domain.Service)),
	wire.Bind(new(crontab.Sweeper), new(*domain.Service)),
)

// BuildApplication assembles the media API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		mediaSet,
		wire.Struct(new(httpserver.Dependencies), "*"),
		httpserver.New,
		crontab.NewCrontab,
		NewApplication,
	)
	return nil, nil
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	if err := database.AttachReplica(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func providePolicy(cfg *config.Config) domain.Policy {
	return cfg.MediaPolicy()
}

func provideLocalStore(b *storage.Backends) domain.LocalStore {
	return b.Local
}

func provideObjectStore(b *storage.Backends) domain.ObjectStore {
	return b.Object
}
