package provider

import (
	"context"
	"encoding/json"

	"infuranode/internal/jsonrpc"
)

// Transport selects how requests reach the provider
type Transport string

const (
	TransportHTTP Transport = "http"
	TransportWS   Transport = "ws"
)

// Client sends one JSON-RPC request and returns the raw reply.
// JSON-RPC error objects are returned as replies, not as errors.
type Client interface {
	Call(ctx context.Context, req *jsonrpc.Request) (json.RawMessage, error)
	Close()
}

// Redactor scrubs secrets from strings that may end up in logs or errors
type Redactor func(string) string

func (r Redactor) apply(s string) string {
	if r == nil {
		return s
	}
	return r(s)
}

// redactedError keeps the wrapped error reachable while hiding secrets in
// its message
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string {
	return e.msg
}

func (e *redactedError) Unwrap() error {
	return e.err
}

func (r Redactor) wrap(prefix string, err error) error {
	return &redactedError{
		msg: r.apply(prefix + ": " + err.Error()),
		err: err,
	}
}
