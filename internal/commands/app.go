package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/api"
	"github.com/sgemaster/sge-backend/internal/assistant"
	"github.com/sgemaster/sge-backend/internal/config"
	"github.com/sgemaster/sge-backend/internal/coordinator"
	"github.com/sgemaster/sge-backend/internal/db"
	"github.com/sgemaster/sge-backend/internal/excel"
	httphandler "github.com/sgemaster/sge-backend/internal/http"
	"github.com/sgemaster/sge-backend/internal/logger"
	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/pdf"
	"github.com/sgemaster/sge-backend/internal/repository"
	"github.com/sgemaster/sge-backend/internal/rpc"
	"github.com/sgemaster/sge-backend/internal/service"
	"github.com/sgemaster/sge-backend/internal/statement"
)

// cliPrincipal acts for commands run by an operator on the host.
var cliPrincipal = model.Principal{UserID: uuid.Nil, Role: model.RoleAdmin}

type app struct {
	cfg         *config.Config
	log         zerolog.Logger
	client      *api.Client
	coordinator *coordinator.Coordinator
	services    httphandler.Services
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.New(cfg.Environment), nil
}

// newApp wires the adapter, facade, coordinator and view services. The
// coordinator is created but not started.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	adapter, err := rpc.Select(cfg.Backend, log, func() (rpc.Store, error) {
		database, err := db.New(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return repository.NewContractStore(database), nil
	})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(adapter)
	coord := coordinator.New(client, log)

	var replier service.Replier
	if cfg.GenAI.APIKey != "" {
		a, err := assistant.NewGemini(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			return nil, fmt.Errorf("init assistant: %w", err)
		}
		replier = a
	} else {
		log.Warn().Msg("GENAI_API_KEY not set, assistant disabled")
	}

	return &app{
		cfg:         cfg,
		log:         log,
		client:      client,
		coordinator: coord,
		services: httphandler.Services{
			Contracts: service.NewContractService(coord, client, log),
			Reports:   service.NewReportService(coord, excel.NewGenerator(), pdf.NewGenerator()),
			Recon:     service.NewReconService(coord, statement.DefaultRegistry()),
			Assistant: service.NewAssistantService(replier, coord, log),
			Settings:  service.NewSettingsService(client, log),
		},
	}, nil
}
