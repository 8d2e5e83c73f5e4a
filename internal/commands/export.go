package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgemaster/sge-backend/internal/service"
)

func newExportCommand() *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a contracts report to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportFormat, err := service.ParseReportFormat(format)
			if err != nil {
				return err
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			a.coordinator.Start(cmd.Context())

			result, err := a.services.Reports.GenerateReport(cmd.Context(), service.GenerateReportInput{
				Format:    reportFormat,
				Principal: cliPrincipal,
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = result.FileName
			}
			if err := os.WriteFile(out, result.Content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d contratos)\n", out, len(a.coordinator.Snapshot()))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "xlsx", "report format: xlsx, pdf or json")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to the generated name)")

	return cmd
}
