// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/autopull/internal/api"
	"github.com/andresuchdata/autopull/internal/cache"
	"github.com/andresuchdata/autopull/internal/config"
	"github.com/andresuchdata/autopull/internal/lock"
	"github.com/andresuchdata/autopull/internal/repository"
	"github.com/andresuchdata/autopull/internal/repository/memory"
	"github.com/andresuchdata/autopull/internal/repository/postgres"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/andresuchdata/autopull/internal/storage"
	"github.com/andresuchdata/autopull/pkg/logger"
)

type repositories struct {
	ledgers     repository.LedgerRepository
	runs        repository.RunRepository
	collections repository.CollectionRepository
	limits      repository.LimitRepository
	close       func()
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage driver: %v", err)
	}
	defer repos.close()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard cache: %v", err)
	}

	var archive *service.ReportArchive
	if cfg.Storage.Enabled {
		objectStore, err := storage.NewMinioClient(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		archive = service.NewReportArchive(objectStore)
	}

	locker := lock.NewDocLocker()

	// Initialize services
	services := &api.Services{
		StockService:      service.NewStockService(repos.ledgers, repos.runs, repos.collections, locker, dashboardCache),
		ReplanService:     service.NewReplanService(repos.ledgers, repos.runs, repos.limits, locker, dashboardCache),
		CollectionService: service.NewCollectionService(repos.ledgers, repos.collections, locker, dashboardCache),
		DashboardService:  service.NewDashboardService(repos.ledgers, repos.runs, dashboardCache),
		LimitService:      service.NewLimitService(repos.limits, locker),
		ReportArchive:     archive,
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("driver", cfg.App.StorageDriver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.App.StorageDriver == "memory" {
		store := memory.NewStore(cfg.App.DefaultMinPull, cfg.App.DefaultMaxPull)
		return &repositories{
			ledgers:     store.Ledger(),
			runs:        store.Runs(),
			collections: store.Collection(),
			limits:      store.Limits(),
			close:       func() {},
		}, nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(context.Background(), db.DB.DB); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		ledgers:     postgres.NewLedgerRepository(db),
		runs:        postgres.NewRunRepository(db),
		collections: postgres.NewCollectionRepository(db),
		limits:      postgres.NewLimitRepository(db, cfg.App.DefaultMinPull, cfg.App.DefaultMaxPull),
		close:       func() { db.Close() },
	}, nil
}
