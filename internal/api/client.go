// Package api exposes the backing-store operations with concrete input and
// output shapes on top of the remote call adapter.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/rpc"
)

var ErrInvalidInput = errors.New("invalid input")

// storeIDPattern matches a spreadsheet id inside a URL.
var storeIDPattern = regexp.MustCompile(`[-\w]{25,}`)

type Invoker interface {
	Invoke(ctx context.Context, op rpc.Operation, args ...any) (json.RawMessage, error)
}

type Client struct {
	rpc Invoker
}

func NewClient(invoker Invoker) *Client {
	return &Client{rpc: invoker}
}

// FetchContracts never returns a nil slice on success. Results that are not a
// list, or do not decode as contracts, become an empty list.
func (c *Client) FetchContracts(ctx context.Context) ([]model.Contract, error) {
	raw, err := c.rpc.Invoke(ctx, rpc.OpFetchContracts)
	if err != nil {
		return nil, err
	}
	if !isJSONArray(raw) {
		return []model.Contract{}, nil
	}
	var contracts []model.Contract
	if err := json.Unmarshal(raw, &contracts); err != nil || contracts == nil {
		return []model.Contract{}, nil
	}
	return contracts, nil
}

func (c *Client) SaveContract(ctx context.Context, patch model.ContractPatch) (model.SaveResult, error) {
	raw, err := c.rpc.Invoke(ctx, rpc.OpSaveContract, patch)
	if err != nil {
		return model.SaveResult{}, err
	}
	var result model.SaveResult
	decodeObject(raw, &result)
	return result, nil
}

// LinkStore links the store named by urlOrID. A URL is reduced to the id it
// contains; an empty id is rejected before any call is made.
func (c *Client) LinkStore(ctx context.Context, urlOrID string) (model.LinkResult, error) {
	storeID := ExtractStoreID(urlOrID)
	if storeID == "" {
		return model.LinkResult{}, fmt.Errorf("%w: store id or url is required", ErrInvalidInput)
	}
	raw, err := c.rpc.Invoke(ctx, rpc.OpLinkStore, storeID)
	if err != nil {
		return model.LinkResult{}, err
	}
	var result model.LinkResult
	decodeObject(raw, &result)
	return result, nil
}

// FetchStoreMetadata returns nil when no store is linked.
func (c *Client) FetchStoreMetadata(ctx context.Context) (*model.StoreMetadata, error) {
	raw, err := c.rpc.Invoke(ctx, rpc.OpFetchStoreMetadata)
	if err != nil {
		return nil, err
	}
	var meta model.StoreMetadata
	if !decodeObject(raw, &meta) {
		return nil, nil
	}
	return &meta, nil
}

func ExtractStoreID(urlOrID string) string {
	if match := storeIDPattern.FindString(urlOrID); match != "" {
		return match
	}
	return urlOrID
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func decodeObject(raw json.RawMessage, dst any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Unmarshal(trimmed, dst) == nil
}
