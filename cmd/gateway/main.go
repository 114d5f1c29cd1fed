package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ameliahb/datagrid-gateway/internal/application"
	"github.com/ameliahb/datagrid-gateway/internal/application/services"
	"github.com/ameliahb/datagrid-gateway/internal/config"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence"
	"github.com/ameliahb/datagrid-gateway/internal/infrastructure/persistence/postgres"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest/handlers"
	"github.com/ameliahb/datagrid-gateway/internal/interfaces/rest/middleware"
	"github.com/ameliahb/datagrid-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting datagrid gateway",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db.Pool)
	rseRepo := postgres.NewRSERepository(db.Pool)
	limitRepo := postgres.NewLimitRepository(db.Pool)
	replicaRepo := postgres.NewReplicaRepository(db.Pool)

	authorizer := application.NewAuthorizer(cfg.Auth.AdminAccounts)

	limitService := services.NewLimitService(accountRepo, rseRepo, limitRepo, authorizer)
	replicaService := services.NewReplicaService(rseRepo, replicaRepo, db, authorizer)

	h := handlers.NewHandlers(limitService, replicaService, logger)
	router := http.Handler(h.NewRouter())

	handler := middleware.Auth()(router)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	usageReconciler := worker.NewUsageReconciler(db, cfg.Worker.Interval, logger)
	availabilityWorker := worker.NewAvailabilityWorker(db, cfg.Worker.Interval, cfg.Worker.BatchSize, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go usageReconciler.Start(workerCtx)
	go availabilityWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
