package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare vendor transactions with the orders they mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			failOnDrift, _ := cmd.Flags().GetBool("fail-on-drift")
			svc, err := a.services()
			if err != nil {
				return err
			}
			report, err := svc.Reconcile.Audit()
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if failOnDrift && !report.Consistent() {
				return fmt.Errorf("vendor ledger has %d divergences", len(report.Findings))
			}
			return nil
		},
	}
	cmd.Flags().Bool("fail-on-drift", false, "Exit non-zero when divergences are found")
	return cmd
}

func newRebuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate every vendor transaction from the orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			result, err := svc.Reconcile.Repair()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			dashboard, err := svc.Dashboard.Compute()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dashboard)
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Update the schema and upgrade legacy rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.migration)
		},
	}
}
