package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/model"
)

// StoreColumns are the headers a linked spreadsheet must carry.
var StoreColumns = []string{
	"indice",
	"contrato",
	"nombreMostrar",
	"rut",
	"precio",
	"estadoPago",
	"statusServicio",
	"autos",
}

type StoreLinker interface {
	LinkStore(ctx context.Context, urlOrID string) (model.LinkResult, error)
	FetchStoreMetadata(ctx context.Context) (*model.StoreMetadata, error)
}

type SettingsService struct {
	store StoreLinker
	log   zerolog.Logger
}

func NewSettingsService(store StoreLinker, log zerolog.Logger) *SettingsService {
	return &SettingsService{store: store, log: log}
}

type LinkOutcome struct {
	Result   model.LinkResult     `json:"result"`
	Metadata *model.StoreMetadata `json:"metadata"`
	Message  string               `json:"message"`
}

// Link validates the input locally, links the store and reloads its metadata.
func (s *SettingsService) Link(ctx context.Context, input string, principal model.Principal) (*LinkOutcome, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	result, err := s.store.LinkStore(ctx, input)
	if err != nil {
		return nil, err
	}

	outcome := &LinkOutcome{Result: result, Message: linkMessage(result)}
	meta, err := s.store.FetchStoreMetadata(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("metadata reload after link failed")
		return outcome, nil
	}
	outcome.Metadata = meta
	return outcome, nil
}

func (s *SettingsService) Metadata(ctx context.Context, principal model.Principal) (*model.StoreMetadata, error) {
	if !principal.CanRead() {
		return nil, ErrPermissionDenied
	}
	return s.store.FetchStoreMetadata(ctx)
}

func linkMessage(result model.LinkResult) string {
	if !result.Success {
		return "La hoja no pudo ser vinculada."
	}
	name := "(sin nombre)"
	if result.Name != nil {
		name = *result.Name
	}
	rows := 0
	if result.RowCount != nil {
		rows = *result.RowCount
	}
	return fmt.Sprintf("Vinculado a: %s. Se encontraron %d contratos.", name, rows)
}
