package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sgemaster/sge-backend/internal/auth"
	"github.com/sgemaster/sge-backend/internal/model"
)

func newTokenCommand() *cobra.Command {
	var role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := model.Role(strings.ToUpper(role))
			if r != model.RoleAdmin && r != model.RoleViewer {
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(model.Principal{UserID: uuid.New(), Role: r}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(model.RoleViewer), "ADMIN or VIEWER")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")

	return cmd
}
