package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fleetops/fleet-reports/internal/application/port"
	"github.com/fleetops/fleet-reports/internal/application/service"
	"github.com/fleetops/fleet-reports/internal/backend"
	"github.com/fleetops/fleet-reports/internal/cache"
	"github.com/fleetops/fleet-reports/internal/config"
	httpserver "github.com/fleetops/fleet-reports/internal/interfaces/http"
	"github.com/fleetops/fleet-reports/internal/report"
	"github.com/fleetops/fleet-reports/internal/repository"
	"github.com/fleetops/fleet-reports/internal/storage"
	"github.com/fleetops/fleet-reports/internal/worker"
	"github.com/fleetops/fleet-reports/pkg/database"
	"github.com/fleetops/fleet-reports/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "fleet-reports",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting fleet report service",
		zap.Int("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export history database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.NewMigrator(db, logger).Run(ctx, database.Migrations()); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	exportLogRepo := repository.NewExportLogRepository(db.DB, logger)

	// Fleet backend
	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.Timeout,
		Paths:   cfg.Backend.KindPaths(),
	}, logger)

	snapshotCache := newSnapshotCache(ctx, cfg.Cache, logger)
	loader := report.NewLoader(client, snapshotCache, cfg.Report.FetchParallelism, logger)

	// Services
	rules := cfg.Report.WageRules()
	sessions := report.NewSessionStore()
	reportService := service.NewReportService(sessions, loader, client, rules, logger)
	exportService := service.NewExportService(reportService, exportLogRepo, newArchive(cfg.Export, logger), rules, logger)

	// Background workers
	workers := worker.NewManager(logger)
	workers.Register(worker.NewSessionReaper(sessions, cfg.Report.SessionTTL, cfg.Report.ReapInterval, logger))
	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}
	defer workers.StopAll()

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, reportService, exportService, db, logger)

	// Blocks until SIGINT/SIGTERM
	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server stopped with error", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newSnapshotCache returns nil when caching is disabled or Redis is
// unreachable, so the loader always fetches from the backend.
func newSnapshotCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) report.SnapshotCache {
	if !cfg.Enabled {
		return nil
	}
	client, err := cache.New(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("Snapshot cache disabled, redis unavailable",
			zap.String("addr", cfg.Addr),
			zap.Error(err))
		return nil
	}
	logger.Info("Snapshot cache enabled", zap.String("addr", cfg.Addr), zap.Duration("ttl", cfg.TTL))
	return cache.NewSnapshotCache(client, cfg.TTL, logger)
}

func newArchive(cfg config.ExportConfig, logger *zap.Logger) port.ExportArchive {
	if !cfg.ArchiveEnabled {
		return nil
	}
	return storage.NewExportArchive(storage.NewLocalFileStorage(cfg.ArchiveDir, logger), logger)
}
