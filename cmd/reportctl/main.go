// Package main is reportctl, an operator CLI over the reporting engine.
// It runs every computation with administrator visibility.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"clinicstats/internal/config"
	appctx "clinicstats/internal/core/context"
	"clinicstats/internal/core/security"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/domain/reports"
	"clinicstats/internal/infrastructure/storage/postgres"
	"clinicstats/internal/infrastructure/storage/postgres/clinic_repo"
	"clinicstats/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Inspect clinic reports from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		ledgerCmd(),
		statsCmd(),
		patientCmd(),
		historyCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the database-backed collaborators shared by subcommands.
type app struct {
	pool      *postgres.Pool
	txManager *postgres.TxManager
	repo      *clinic_repo.ClinicRepo
	reports   *reports.Service
	viewer    security.Viewer
}

func newApp(cmd *cobra.Command) (context.Context, *app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level, _ := cmd.Flags().GetString("log-level")
	log, err := logger.New(logger.Config{Level: level, Development: true})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	ctx := logger.WithLogger(cmd.Context(), log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 0
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, nil, err
	}

	txManager := postgres.NewTxManager(pool)
	repo := clinic_repo.NewClinicRepo(txManager)

	return ctx, &app{
		pool:      pool,
		txManager: txManager,
		repo:      repo,
		reports:   reports.NewService(clinic.NewLoader(repo)),
		viewer:    security.Viewer{UserID: "reportctl", Role: security.RoleAdmin},
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
