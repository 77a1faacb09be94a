package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory_system/internal/repo"
	"github.com/Skotchmaster/inventory_system/pkg/config"
	pkgdb "github.com/Skotchmaster/inventory_system/pkg/db"
	"github.com/Skotchmaster/inventory_system/pkg/logging"
)

type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
	repo   *repo.GormRepo
}

// boot loads configuration, sets up logging, opens the database and runs
// migrations. Every subcommand starts here.
func boot(ctx context.Context) (*runtime, error) {
	config.LoadDotEnv(envFile)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	r := repo.New(db)
	if err := r.Migrate(ctx); err != nil {
		_ = pkgdb.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, db: db, repo: r}, nil
}

func (rt *runtime) close() {
	if err := pkgdb.Close(rt.db); err != nil {
		rt.logger.Warn("db_close_error", "error", err)
	}
}
