// cmd/watcher/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/autopull/internal/config"
	"github.com/andresuchdata/autopull/internal/storage"
	"github.com/andresuchdata/autopull/internal/watch"
	"github.com/andresuchdata/autopull/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	if !cfg.Storage.Enabled {
		log.Fatal("watcher requires STORAGE_ENABLED=true and bucket credentials")
	}

	objectStore, err := storage.NewMinioClient(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	watcher := watch.NewWatcher(objectStore, cfg.Watcher, cfg.App.UploadDir)

	router := mux.NewRouter()
	watch.NewHandler(watcher).RegisterRoutes(router)
	srv := &http.Server{
		Addr:         ":" + cfg.Watcher.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.Info().
			Str("port", cfg.Watcher.Port).
			Int("interval_seconds", cfg.Watcher.IntervalSeconds).
			Msg("Starting bucket watcher")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start status server")
		}
	}()

	go func() {
		if err := watcher.Run(ctx); err != nil && err != context.Canceled {
			logger.Log.Error().Err(err).Msg("Watcher loop stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down watcher...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Status server forced to shutdown")
	}
	logger.Log.Info().Msg("Watcher exiting")
}
