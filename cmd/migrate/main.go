package main

import (
	"context"
	"os"

	"github.com/fhuszti/upload-relay-go/internal/config"
	"github.com/fhuszti/upload-relay-go/internal/db"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	if cfg.MariaDBDSN == "" {
		logger.Error(ctx, "❌  MARIADB_DSN must be set to run migrations")
		os.Exit(1)
	}

	database, err := initDb(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(ctx, database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func initDb(cfg *config.Settings) (*db.Database, error) {
	dsnCfg, err := mysql.ParseDSN(cfg.MariaDBDSN)
	if err != nil {
		return nil, err
	}
	dsnCfg.MultiStatements = true

	return db.New(dsnCfg.FormatDSN(), cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}
