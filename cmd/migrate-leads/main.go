package main

import (
	"fmt"
	"os"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"
	"github.com/brightpods/admin-api/internal/service"
)

// One-shot operator tool: convert legacy lead-flagged family rows into
// first-class lead records, then clear the legacy flag.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		logger.Errorw("db_init_failed", "error", err)
		os.Exit(1)
	}

	svc := service.NewLeadMigrationService(
		repository.NewFamilyRepository(models.DB),
		repository.NewLeadRepository(models.DB),
	)
	summary, err := svc.MigrateLegacyLeads()
	if err != nil {
		logger.Errorw("lead_migration_failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("legacy leads found: %d\n", summary.Total)
	fmt.Printf("migrated:           %d\n", summary.Migrated)
	fmt.Printf("skipped:            %d\n", summary.Skipped)
	fmt.Printf("failed:             %d\n", summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
