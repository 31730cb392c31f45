package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"infuranode/internal/jsonrpc"
)

// HTTPConfig for creating a new HTTPClient
type HTTPConfig struct {
	URL string
	// Timeout of zero means no client-side timeout
	Timeout time.Duration
	Redact  Redactor
	Logger  zerolog.Logger
}

// HTTPClient posts JSON-RPC requests to the provider
type HTTPClient struct {
	url        string
	httpClient *http.Client
	redact     Redactor
	logger     zerolog.Logger
}

// NewHTTPClient creates a new HTTPClient
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPClient{
		url: cfg.URL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		redact: cfg.Redact,
		logger: cfg.Logger.With().Str("transport", string(TransportHTTP)).Str("endpoint", cfg.Redact.apply(cfg.URL)).Logger(),
	}
}

// Call sends a JSON-RPC request via HTTP POST
func (c *HTTPClient) Call(ctx context.Context, req *jsonrpc.Request) (json.RawMessage, error) {
	reqBytes, err := req.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, c.redact.wrap("failed to create HTTP request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.redact.wrap("HTTP request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("provider replied")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: c.redact.apply(string(body))}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("failed to parse response: body is not valid JSON")
	}

	return json.RawMessage(body), nil
}

// Close releases idle connections
func (c *HTTPClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// StatusError is returned for non-2xx provider replies
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}
