package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/config"
)

// Bridge executes one backing-store operation and returns its raw JSON result.
type Bridge interface {
	Invoke(ctx context.Context, op Operation, args ...any) (json.RawMessage, error)
}

// Adapter is the single entry point for remote calls. The strategy behind it
// is fixed when the adapter is built.
type Adapter struct {
	bridge Bridge
	mode   config.BackendMode
}

func NewAdapter(bridge Bridge, mode config.BackendMode) *Adapter {
	return &Adapter{bridge: bridge, mode: mode}
}

// Invoke runs op to completion. Cancellation of ctx is ignored; values are kept.
func (a *Adapter) Invoke(ctx context.Context, op Operation, args ...any) (json.RawMessage, error) {
	return a.bridge.Invoke(context.WithoutCancel(ctx), op, args...)
}

func (a *Adapter) Mode() config.BackendMode {
	return a.mode
}

// Select picks the bridge for the configured backend mode. openStore is only
// called in database mode.
func Select(cfg config.BackendConfig, log zerolog.Logger, openStore func() (Store, error)) (*Adapter, error) {
	var bridge Bridge
	switch cfg.Mode {
	case config.BackendRemote:
		bridge = NewRemoteBridge(cfg.HostURL, cfg.AccessToken, nil)
	case config.BackendDatabase:
		if openStore == nil {
			return nil, fmt.Errorf("database backend selected without a store")
		}
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		bridge = NewDatabaseBridge(store)
	case config.BackendFixture:
		bridge = NewFixtureBridge(DefaultFixtures(), cfg.FixtureDelay, log)
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Mode)
	}

	log.Info().Str("mode", string(cfg.Mode)).Msg("backing store bridge selected")
	return NewAdapter(bridge, cfg.Mode), nil
}
