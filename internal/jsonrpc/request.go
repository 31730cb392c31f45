package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// DefaultID is the id every outbound request carries. Calls are strictly
// sequential, so a constant id is enough to pair a reply with its request.
var DefaultID = NewIDInt(1)

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      ID              `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Validate checks if the request is valid
func (r *Request) Validate() error {
	if r.JSONRPC != Version {
		return fmt.Errorf("invalid jsonrpc version: %s", r.JSONRPC)
	}
	if r.Method == "" {
		return fmt.Errorf("method is required")
	}
	return nil
}

// NewRequest creates a new JSON-RPC request. Params are always encoded as an
// array; nil becomes [].
func NewRequest(method string, params []interface{}, id ID) (*Request, error) {
	if params == nil {
		params = []interface{}{}
	}

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	return &Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  paramsBytes,
	}, nil
}

// Bytes returns the request as JSON bytes
func (r *Request) Bytes() ([]byte, error) {
	return json.Marshal(r)
}
