// Package coordinator owns the canonical in-memory contract list. Views read
// immutable snapshots and ask for refreshes; nothing else mutates the list.
package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/model"
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

type ContractSource interface {
	FetchContracts(ctx context.Context) ([]model.Contract, error)
}

type Coordinator struct {
	source ContractSource
	log    zerolog.Logger

	mu        sync.RWMutex
	contracts []model.Contract
	state     State

	startOnce sync.Once
	ready     chan struct{}
}

func New(source ContractSource, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		source:    source,
		log:       log,
		contracts: []model.Contract{},
		state:     StateLoading,
		ready:     make(chan struct{}),
	}
}

// Start performs the initial fetch. Only the first call does any work; later
// calls wait for it to finish. The coordinator is ready afterwards whether
// the fetch succeeded or not.
func (c *Coordinator) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		contracts, err := c.source.FetchContracts(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.log.Error().Err(err).Msg("initial contract load failed")
		} else {
			c.contracts = cloneAll(contracts)
		}
		c.state = StateReady
		close(c.ready)
		c.log.Info().Int("contracts", len(c.contracts)).Msg("contracts loaded")
	})
}

// Refresh fetches the list again and replaces the snapshot once the fetch
// settles. Concurrent refreshes are independent: the last one to settle wins.
// On error the current snapshot is kept.
func (c *Coordinator) Refresh(ctx context.Context) ([]model.Contract, error) {
	contracts, err := c.source.FetchContracts(ctx)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []model.Contract{}
	}

	c.mu.Lock()
	c.contracts = cloneAll(contracts)
	c.mu.Unlock()

	return cloneAll(contracts), nil
}

func (c *Coordinator) Snapshot() []model.Contract {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.contracts)
}

func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Ready is closed when the initial load settles.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

func cloneAll(contracts []model.Contract) []model.Contract {
	out := make([]model.Contract, len(contracts))
	for i, contract := range contracts {
		out[i] = contract.Clone()
	}
	return out
}
