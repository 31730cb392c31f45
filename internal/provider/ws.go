package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"infuranode/internal/jsonrpc"
)

const defaultHandshakeTimeout = 10 * time.Second

// WSConfig for creating a new WSClient
type WSConfig struct {
	URL string
	// Timeout bounds each call; zero means no client-side timeout
	Timeout time.Duration
	Redact  Redactor
	Logger  zerolog.Logger
}

// WSClient sends requests over a single WebSocket connection, one at a time.
// The connection is dialled on first use and re-dialled after a failure.
type WSClient struct {
	url     string
	timeout time.Duration
	dialer  websocket.Dialer
	redact  Redactor
	logger  zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSClient creates a new WSClient
func NewWSClient(cfg WSConfig) *WSClient {
	return &WSClient{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		dialer:  websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		redact:  cfg.Redact,
		logger:  cfg.Logger.With().Str("transport", string(TransportWS)).Str("endpoint", cfg.Redact.apply(cfg.URL)).Logger(),
	}
}

func (c *WSClient) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	c.logger.Debug().Msg("WebSocket connecting")
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return c.redact.wrap("failed to connect WebSocket", err)
	}
	c.conn = conn
	c.logger.Debug().Msg("WebSocket connected")
	return nil
}

// Call writes the request and waits for the reply carrying the same id.
// An error reply with a null or missing id also answers the call, since a
// provider that cannot parse the request cannot echo its id. Other frames are
// skipped.
func (c *WSClient) Call(ctx context.Context, req *jsonrpc.Request) (json.RawMessage, error) {
	reqBytes, err := req.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}
	conn := c.conn

	deadline := time.Time{}
	if c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	// unblock a pending read when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, reqBytes); err != nil {
		c.dropLocked()
		return nil, c.redact.wrap("WebSocket write failed", err)
	}

	_ = conn.SetReadDeadline(deadline)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropLocked()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
				return nil, context.DeadlineExceeded
			}
			return nil, c.redact.wrap("WebSocket read failed", err)
		}

		if !json.Valid(data) {
			// the stream position is unknown now; start over on the next call
			c.dropLocked()
			return nil, fmt.Errorf("failed to parse response: frame is not valid JSON")
		}

		if !isReplyTo(data, req.ID) {
			c.logger.Debug().Int("bytes", len(data)).Msg("skipping unrelated frame")
			continue
		}

		c.logger.Debug().Str("method", req.Method).Int("bytes", len(data)).Msg("provider replied")
		return json.RawMessage(data), nil
	}
}

func isReplyTo(data []byte, id jsonrpc.ID) bool {
	var envelope struct {
		ID    jsonrpc.ID      `json:"id"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return false
	}
	if envelope.ID.Equal(id) {
		return true
	}
	return envelope.ID.IsNull() && len(envelope.Error) > 0 && !bytes.Equal(envelope.Error, []byte("null"))
}

// Close closes the connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.dropLocked()
}

func (c *WSClient) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
