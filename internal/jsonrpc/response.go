package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response represents a JSON-RPC response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      ID              `json:"id"`
}

// HasError returns true if the response contains an error
func (r *Response) HasError() bool {
	return r.Error != nil
}

// ResultIsNull returns true if the response result is JSON null
func (r *Response) ResultIsNull() bool {
	if r == nil {
		return true
	}
	if len(r.Result) == 0 {
		return true
	}
	return bytes.Equal(r.Result, []byte("null"))
}

// ParseResponse parses a JSON-RPC response from bytes
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Inspect decodes the envelope of a raw reply without altering it. A reply
// that is valid JSON but not a well-formed envelope (a bare string, an array,
// an error field that is not an object) yields an empty Response rather than
// an error: the payload is forwarded regardless.
func Inspect(raw json.RawMessage) (*Response, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &Response{}, nil
	}
	resp, err := ParseResponse(raw)
	if err != nil {
		return &Response{}, nil
	}
	return resp, nil
}
