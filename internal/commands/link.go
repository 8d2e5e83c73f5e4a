package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <url-or-id>",
		Short: "Link the backing spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			outcome, err := a.services.Settings.Link(cmd.Context(), args[0], cliPrincipal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			if !outcome.Result.Success {
				return fmt.Errorf("link failed")
			}
			return nil
		},
	}
}
