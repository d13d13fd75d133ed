package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewhub/internal/config"
	"interviewhub/internal/db"
	"interviewhub/internal/logger"
	"interviewhub/internal/router"
)

func main() {
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !envLoaded {
		log.Info("No .env file found, reading configuration from environment")
	}

	// Initialize Database
	gdb, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatal("Failed to migrate database", "error", err)
		}
		log.Info("Database migration completed")
	}
	if err := db.SeedCompanies(context.Background(), gdb, log); err != nil {
		log.Warn("Failed to seed companies", "error", err)
	}

	r, err := router.New(cfg, gdb, log)
	if err != nil {
		log.Fatal("Failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Interview experience API starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
