package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/coordinator"
	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/repository"
)

const NoRecordsMessage = "No hay contratos registrados en la hoja de cálculo."

// ContractState is the coordinator as seen by the views.
type ContractState interface {
	Snapshot() []model.Contract
	Refresh(ctx context.Context) ([]model.Contract, error)
	State() coordinator.State
}

type ContractWriter interface {
	SaveContract(ctx context.Context, patch model.ContractPatch) (model.SaveResult, error)
}

type ContractService struct {
	state  ContractState
	writer ContractWriter
	log    zerolog.Logger
}

func NewContractService(state ContractState, writer ContractWriter, log zerolog.Logger) *ContractService {
	return &ContractService{state: state, writer: writer, log: log}
}

type ContractList struct {
	State   coordinator.State `json:"state"`
	Items   []model.Contract  `json:"items"`
	Total   int               `json:"total"`
	Message string            `json:"message,omitempty"`
}

func (s *ContractService) List(term string, principal model.Principal) (ContractList, error) {
	if !principal.CanRead() {
		return ContractList{}, ErrPermissionDenied
	}
	items := FilterContracts(s.state.Snapshot(), term)
	list := ContractList{
		State: s.state.State(),
		Items: items,
		Total: len(items),
	}
	if len(items) == 0 {
		list.Message = NoRecordsMessage
	}
	return list, nil
}

func (s *ContractService) Refresh(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	if !principal.CanRead() {
		return nil, ErrPermissionDenied
	}
	return s.state.Refresh(ctx)
}

type SaveOutcome struct {
	Result    model.SaveResult `json:"result"`
	Contracts []model.Contract `json:"contracts"`
}

// Save sends the patch to the backing store and then re-fetches the list.
// The local list is never patched directly.
func (s *ContractService) Save(ctx context.Context, patch model.ContractPatch, principal model.Principal) (*SaveOutcome, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *patch.PaymentStatus)
	}
	if patch.ServiceStatus != nil && !patch.ServiceStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown service status %q", ErrInvalidInput, *patch.ServiceStatus)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	result, err := s.writer.SaveContract(ctx, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrContractNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrNoLinkedStore):
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}

	outcome := &SaveOutcome{Result: result}
	contracts, err := s.state.Refresh(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("refresh after save failed")
		outcome.Contracts = s.state.Snapshot()
		return outcome, nil
	}
	outcome.Contracts = contracts
	return outcome, nil
}

// FilterContracts keeps contracts whose display name, tax id or contract
// number contains term, ignoring case. An empty term keeps everything.
func FilterContracts(contracts []model.Contract, term string) []model.Contract {
	needle := strings.ToLower(term)
	result := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if strings.Contains(strings.ToLower(c.DisplayName), needle) ||
			strings.Contains(strings.ToLower(c.TaxID), needle) ||
			strings.Contains(strings.ToLower(c.ContractNumber), needle) {
			result = append(result, c)
		}
	}
	return result
}
