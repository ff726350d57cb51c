package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"agritrade/internal/config"
	"agritrade/internal/db"
	"agritrade/internal/logger"
	"agritrade/internal/router"
	"agritrade/internal/services"
	"agritrade/internal/store"
	"agritrade/internal/store/memory"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel)
	log.Info().Str("storage", cfg.StorageDriver).Msg("Starting agritrade backend")

	repos, closeStore := openRepositories(cfg, log)
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(cfg, repos, reg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

func openRepositories(cfg config.Config, log zerolog.Logger) (services.Repositories, func()) {
	if cfg.StorageDriver == "memory" {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return memory.New().Repositories(), func() {}
	}

	database, err := db.InitDB(cfg.DBUrl, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.RunMigrations(ctx, database, log); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	if err := db.SeedRoles(ctx, database, log); err != nil {
		log.Fatal().Err(err).Msg("Role seeding failed")
	}

	return mysqlRepositories(database), func() { database.Close() }
}

func mysqlRepositories(database *sql.DB) services.Repositories {
	return services.Repositories{
		Identities: store.NewIdentityStore(database),
		Farmers:    store.NewFarmerStore(database),
		Merchants:  store.NewMerchantStore(database),
		Crops:      store.NewCropStore(database),
		Users:      store.NewUserStore(database),
	}
}
