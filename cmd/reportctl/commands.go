package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clinicstats/internal/config"
	"clinicstats/internal/core/calendar"
	appctx "clinicstats/internal/core/context"
	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/auth"
	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/domain/reports"
	"clinicstats/internal/infrastructure/storage/postgres"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger <branchId>",
		Short: "Print the daily ledger of a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branchID, err := id.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid branch id %q: %w", args[0], err)
			}

			ctx, a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ledger, err := a.reports.DetailedLedger(ctx, a.viewer, branchID)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), ledger)
			}
			return printLedger(cmd, ledger)
		},
	}
	cmd.Flags().Bool("json", false, "Print the full ledger as JSON")
	return cmd
}

func printLedger(cmd *cobra.Command, l *reports.Ledger) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s (%s)\n", l.BranchName, l.BranchID)
	fmt.Fprintln(w, "DATE\tPATIENTS\tCOSTS\tPAYMENTS\tPAID")
	for _, d := range l.DailySummaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", d.Date, d.PatientCount, d.TotalCosts.StringFixed(0), d.PaymentCount, d.TotalPaid.StringFixed(0))
	}
	if l.Undated.Patients > 0 || l.Undated.Payments > 0 {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", calendar.UnknownKey, l.Undated.Patients, l.Undated.TotalCost.StringFixed(0), l.Undated.Payments, l.Undated.TotalPaid.StringFixed(0))
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%s\t%d\t%s\n", l.Overall.TotalPatients, l.Overall.TotalCost.StringFixed(0), l.Overall.TotalPayments, l.Overall.TotalPaid.StringFixed(0))
	fmt.Fprintf(w, "REMAINING\t\t%s\n", l.Overall.Remaining.StringFixed(0))
	return w.Flush()
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			rangeFlag, _ := cmd.Flags().GetString("range")
			branchFlag, _ := cmd.Flags().GetString("branch")

			branchID, err := id.ParseOptional(branchFlag)
			if err != nil {
				return fmt.Errorf("invalid branch id %q: %w", branchFlag, err)
			}

			ctx, a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.reports.Statistics(ctx, a.viewer, reports.StatisticsFilter{
				Range:    calendar.ParseRange(rangeFlag),
				BranchID: branchID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().String("range", string(calendar.RangeAll), "Time window: all, week, month, quarter, year")
	cmd.Flags().String("branch", "", "Restrict to one branch id")
	return cmd
}

func patientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patient <patientId>",
		Short: "Print the visits and payments of one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, err := id.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id %q: %w", args[0], err)
			}

			ctx, a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var out struct {
				Visits   any `json:"visits"`
				Payments any `json:"payments"`
			}
			err = a.txManager.ReadOnly(ctx, func(ctx context.Context) error {
				visits, err := a.repo.ListVisitsByPatient(ctx, patientID)
				if err != nil {
					return err
				}
				payments, err := a.repo.ListPaymentsByPatient(ctx, patientID)
				if err != nil {
					return err
				}
				out.Visits, out.Payments = visits, payments
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <statId>",
		Short: "Print the audit trail of a custom stat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statID, err := id.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid stat id %q: %w", args[0], err)
			}
			limit, _ := cmd.Flags().GetInt("limit")

			ctx, a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			auditService, err := postgres.NewAuditService(a.txManager)
			if err != nil {
				return err
			}
			entries, err := auditService.History(ctx, customstat.EntityType, statID, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().Int("limit", 50, "Maximum number of entries")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			branch, _ := cmd.Flags().GetString("branch")
			user, _ := cmd.Flags().GetString("user")

			if branch != "" {
				if _, err := id.Parse(branch); err != nil {
					return fmt.Errorf("invalid branch id %q: %w", branch, err)
				}
			}

			cfg, err := config.LoadUnvalidated()
			if err != nil {
				return err
			}
			jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
			jwtConfig.AccessTokenTTL = cfg.JWTTokenTTL

			token, expiresAt, err := auth.NewJWTService(jwtConfig).GenerateAccessToken(appctx.UserContext{
				UserID:   user,
				Role:     role,
				BranchID: branch,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format("2006-01-02 15:04:05Z"))
			return nil
		},
	}
	cmd.Flags().String("role", appctx.RoleAdmin, "Role claim: admin or branch")
	cmd.Flags().String("branch", "", "Branch id claim")
	cmd.Flags().String("user", "operator", "User id claim")
	return cmd
}
