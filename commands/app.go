package commands

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"concesionaria-api/config"
	"concesionaria-api/database"
	"concesionaria-api/logger"
	"concesionaria-api/repositories"
	"concesionaria-api/services"
)

// app holds what every command needs: configuration, logger and database.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{cfg: cfg, logger: log, db: db}, nil
}

func (a *app) carService() *services.CarService {
	store := services.NewImageStore(a.cfg.ImagesDir(), a.cfg.ImagesURL())
	fetcher := services.NewHTTPImageFetcher(a.cfg.ImageFetchTimeout, a.cfg.ImageMaxBytes)
	return services.NewCarService(repositories.NewCarRepository(a.db), store, fetcher, a.logger)
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
