package provider

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// New creates the Client for the selected transport
func New(transport Transport, endpoints Endpoints, timeout time.Duration, redact Redactor, logger zerolog.Logger) (Client, error) {
	switch transport {
	case TransportHTTP, "":
		return NewHTTPClient(HTTPConfig{URL: endpoints.HTTP, Timeout: timeout, Redact: redact, Logger: logger}), nil
	case TransportWS:
		return NewWSClient(WSConfig{URL: endpoints.WS, Timeout: timeout, Redact: redact, Logger: logger}), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
