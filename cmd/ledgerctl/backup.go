package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bookkeeper/internal/logger"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a JSON backup file",
		Example: `  # Export to bookkeeper-accounts-backup-<date>.json in the current directory
  ledgerctl export

  # Export to stdout
  ledgerctl export --out -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			svc, err := a.services()
			if err != nil {
				return err
			}
			if out == "-" {
				return svc.Backup.Export(cmd.OutOrStdout())
			}
			if out == "" {
				out = svc.Backup.DefaultFileName(svc.Clock())
			}
			if err := svc.Backup.ExportToFile(out); err != nil {
				return err
			}
			log := logger.WithComponent("export")
			log.Info().Str("file", out).Msg("Backup written")
			fmt.Fprintf(cmd.OutOrStdout(), "Database exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output file, or - for stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace every collection with the content of a backup file",
		Long: `Import replaces all orders, expenses, vendors, vendor transactions and
fund transactions with the content of the file. Nothing is merged. The
command refuses to run without --yes.`,
		Example: `  ledgerctl import --in bookkeeper-accounts-backup-2024-03-09.json --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			yes, _ := cmd.Flags().GetBool("yes")
			if in == "" {
				return errors.New("--in is required")
			}
			if !yes {
				return errors.New("import replaces all current data; rerun with --yes to confirm")
			}
			svc, err := a.services()
			if err != nil {
				return err
			}
			counts, err := svc.Backup.ImportFromFile(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database imported")
			return printJSON(cmd.OutOrStdout(), counts)
		},
	}
	cmd.Flags().String("in", "", "Backup file to import")
	cmd.Flags().Bool("yes", false, "Confirm that current data may be replaced")
	return cmd
}
