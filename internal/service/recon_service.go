package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/reconciliation"
	"github.com/sgemaster/sge-backend/internal/statement"
)

type ReconService struct {
	contracts ContractSnapshot
	parsers   *statement.Registry
}

func NewReconService(contracts ContractSnapshot, parsers *statement.Registry) *ReconService {
	return &ReconService{contracts: contracts, parsers: parsers}
}

type ReconResult struct {
	FileName     string                  `json:"fileName"`
	Transactions []model.BankTransaction `json:"transactions"`
	Matched      int                     `json:"matched"`
	Unmatched    int                     `json:"unmatched"`
}

// Analyze parses a statement and suggests a contract for every movement.
// Nothing is applied to the backing store.
func (s *ReconService) Analyze(_ context.Context, fileName string, r io.Reader, principal model.Principal) (*ReconResult, error) {
	if !principal.CanRead() {
		return nil, ErrPermissionDenied
	}

	parser, err := s.parsers.ForFile(fileName)
	if err != nil {
		if errors.Is(err, statement.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	txns, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	suggested := reconciliation.NewMatcher(s.contracts.Snapshot()).Suggest(txns)
	result := &ReconResult{FileName: fileName, Transactions: suggested}
	for _, txn := range suggested {
		if txn.Suggested != nil {
			result.Matched++
		} else {
			result.Unmatched++
		}
	}
	return result, nil
}
