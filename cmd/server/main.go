// Package main is the entry point for the clinicstats API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"clinicstats/internal/config"
	"clinicstats/internal/domain/auth"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/domain/reports"
	v1 "clinicstats/internal/infrastructure/http/v1"
	"clinicstats/internal/infrastructure/metrics"
	"clinicstats/internal/infrastructure/storage/postgres"
	"clinicstats/internal/infrastructure/storage/postgres/clinic_repo"
	"clinicstats/internal/infrastructure/storage/postgres/customstat_repo"
	"clinicstats/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDev(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting clinicstats server", "env", cfg.Env, "version", version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	postgres.LogPoolStats(ctx, pool.Unwrap())

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit log", "error", err)
	}

	// --- Metrics ---
	var m *metrics.Metrics
	reportOpts := []reports.Option{}
	if cfg.MetricsEnabled {
		m = metrics.New()
		m.RegisterPool(pool.Stats)
		reportOpts = append(reportOpts, reports.WithObserver(m))
	}

	// --- Services ---
	loader := clinic.NewLoader(clinic_repo.NewClinicRepo(txManager))
	reportService := reports.NewService(loader, reportOpts...)
	customStatService := customstat.NewService(
		customstat_repo.NewCustomStatRepo(txManager),
		loader,
		txManager,
		auditService,
	)

	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.JWTTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	mode := gin.ReleaseMode
	if cfg.IsDev() {
		mode = gin.DebugMode
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Mode:         mode,
		Version:      version,
		Logger:       log,
		JWTValidator: jwtService,
		Database:     pool,
		Metrics:      m,
		Reports:      reportService,
		CustomStats:  customStatService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
