package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RemoteBridge calls backing-store functions through the Apps Script
// execution endpoint.
type RemoteBridge struct {
	url    string
	token  string
	client *http.Client
}

type executionRequest struct {
	Function   string `json:"function"`
	Parameters []any  `json:"parameters"`
	DevMode    bool   `json:"devMode"`
}

type executionResponse struct {
	Done     bool `json:"done"`
	Response *struct {
		Result json.RawMessage `json:"result"`
	} `json:"response,omitempty"`
	Error *HostError `json:"error,omitempty"`
}

func NewRemoteBridge(url, token string, client *http.Client) *RemoteBridge {
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteBridge{url: url, token: token, client: client}
}

func (b *RemoteBridge) Invoke(ctx context.Context, op Operation, args ...any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	body, err := json.Marshal(executionRequest{Function: op.String(), Parameters: args})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded executionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &HostError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HostError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if decoded.Response == nil || len(decoded.Response.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return decoded.Response.Result, nil
}
