package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sgemaster/sge-backend/internal/auth"
	httphandler "github.com/sgemaster/sge-backend/internal/http"
	"github.com/sgemaster/sge-backend/internal/http/middleware"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
			handler := httphandler.NewHandler(a.services, log)
			router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.HTTP.AllowedOrigins, cfg.Environment, log)

			addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
			server := &http.Server{Addr: addr, Handler: router}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				a.coordinator.Start(ctx)
				return nil
			})
			g.Go(func() error {
				log.Info().Str("addr", addr).Msg("starting sge-master")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				log.Error().Err(err).Msg("server stopped")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}
