package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownOperation = errors.New("unknown operation")

// HostError is a failure reported by the host. Fields are kept exactly as the
// host sent them.
type HostError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status,omitempty"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// ScriptErrorDetail is the script-level failure the host attaches to an
// execution error.
type ScriptErrorDetail struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

func (e *HostError) Error() string {
	if detail, ok := e.ScriptError(); ok && detail.ErrorMessage != "" {
		return fmt.Sprintf("host error: %s: %s", detail.ErrorType, detail.ErrorMessage)
	}
	return fmt.Sprintf("host error %d: %s", e.Code, e.Message)
}

// ScriptError returns the first script-level detail, if the host attached one.
func (e *HostError) ScriptError() (ScriptErrorDetail, bool) {
	for _, raw := range e.Details {
		var detail ScriptErrorDetail
		if err := json.Unmarshal(raw, &detail); err == nil && detail.ErrorMessage != "" {
			return detail, true
		}
	}
	return ScriptErrorDetail{}, false
}
