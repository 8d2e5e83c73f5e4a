package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/assistant"
	"github.com/sgemaster/sge-backend/internal/model"
)

type Replier interface {
	Reply(ctx context.Context, contracts []model.Contract, history []model.ChatMessage, prompt string) (model.ChatMessage, error)
}

type AssistantService struct {
	replier   Replier
	contracts ContractSnapshot
	log       zerolog.Logger
}

// NewAssistantService accepts a nil replier; every request then fails with
// ErrUnavailable.
func NewAssistantService(replier Replier, contracts ContractSnapshot, log zerolog.Logger) *AssistantService {
	return &AssistantService{replier: replier, contracts: contracts, log: log}
}

func (s *AssistantService) Ask(ctx context.Context, history []model.ChatMessage, prompt string, principal model.Principal) (model.ChatMessage, error) {
	if !principal.CanRead() {
		return model.ChatMessage{}, ErrPermissionDenied
	}
	if s.replier == nil {
		return model.ChatMessage{}, fmt.Errorf("%w: assistant is not configured", ErrUnavailable)
	}

	msg, err := s.replier.Reply(ctx, s.contracts.Snapshot(), history, prompt)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyPrompt) {
			return model.ChatMessage{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.log.Error().Err(err).Msg("assistant reply failed")
		return model.ChatMessage{}, err
	}
	return msg, nil
}
