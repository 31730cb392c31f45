package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultDomain is the provider domain the network subdomain is joined with
const DefaultDomain = "infura.io"

// EndpointConfig describes where the provider lives
type EndpointConfig struct {
	Network   string
	ProjectID string
	Domain    string
	// BaseURL replaces https://{network}.{domain} when set, e.g. a local
	// gateway. The /v3/{projectId} path is still appended.
	BaseURL string
}

// Endpoints holds the HTTP and WebSocket URLs for one network
type Endpoints struct {
	HTTP string
	WS   string
}

// NewEndpoints composes the provider URLs. The project id is used as a path
// segment verbatim.
func NewEndpoints(cfg EndpointConfig) (Endpoints, error) {
	if cfg.Network == "" {
		return Endpoints{}, fmt.Errorf("network is required")
	}
	domain := cfg.Domain
	if domain == "" {
		domain = DefaultDomain
	}

	if cfg.BaseURL == "" {
		return Endpoints{
			HTTP: fmt.Sprintf("https://%s.%s/v3/%s", cfg.Network, domain, cfg.ProjectID),
			WS:   fmt.Sprintf("wss://%s.%s/ws/v3/%s", cfg.Network, domain, cfg.ProjectID),
		}, nil
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return Endpoints{}, fmt.Errorf("invalid base URL: %w", err)
	}

	wsScheme := "wss"
	switch base.Scheme {
	case "http":
		wsScheme = "ws"
	case "https":
	default:
		return Endpoints{}, fmt.Errorf("invalid base URL scheme %q", base.Scheme)
	}

	httpBase := base.String()
	wsBase := *base
	wsBase.Scheme = wsScheme

	return Endpoints{
		HTTP: httpBase + "/v3/" + cfg.ProjectID,
		WS:   wsBase.String() + "/ws/v3/" + cfg.ProjectID,
	}, nil
}
