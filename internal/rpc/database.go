package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sgemaster/sge-backend/internal/model"
)

// Store is a backing store reachable in-process.
type Store interface {
	ListContracts(ctx context.Context) ([]model.Contract, error)
	SaveContract(ctx context.Context, patch model.ContractPatch) error
	LinkStore(ctx context.Context, storeID string) (*model.StoreMetadata, error)
	Metadata(ctx context.Context) (*model.StoreMetadata, error)
}

// DatabaseBridge serves operations from a Store. Arguments and results cross
// a JSON boundary so callers see the same shapes as with a remote host.
type DatabaseBridge struct {
	store Store
}

func NewDatabaseBridge(store Store) *DatabaseBridge {
	return &DatabaseBridge{store: store}
}

func (b *DatabaseBridge) Invoke(ctx context.Context, op Operation, args ...any) (json.RawMessage, error) {
	var (
		result any
		err    error
	)

	switch op {
	case OpFetchContracts:
		result, err = b.store.ListContracts(ctx)
	case OpSaveContract:
		var patch model.ContractPatch
		if err := decodeArg(args, 0, &patch); err != nil {
			return nil, err
		}
		if err = b.store.SaveContract(ctx, patch); err == nil {
			result = model.SaveResult{Success: true}
		}
	case OpLinkStore:
		var storeID string
		if err := decodeArg(args, 0, &storeID); err != nil {
			return nil, err
		}
		var meta *model.StoreMetadata
		if meta, err = b.store.LinkStore(ctx, storeID); err == nil {
			if meta == nil {
				result = model.LinkResult{Success: false}
				break
			}
			name, rows := meta.Name, meta.RowCount
			result = model.LinkResult{Success: true, Name: &name, RowCount: &rows}
		}
	case OpFetchStoreMetadata:
		result, err = b.store.Metadata(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func decodeArg(args []any, pos int, dst any) error {
	if pos >= len(args) {
		return fmt.Errorf("missing argument %d", pos)
	}
	raw, err := json.Marshal(args[pos])
	if err != nil {
		return fmt.Errorf("encode argument %d: %w", pos, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode argument %d: %w", pos, err)
	}
	return nil
}
