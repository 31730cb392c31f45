package config

import (
	"time"

	"infuranode/internal/credentials"
	"infuranode/internal/provider"
)

// Config represents the run configuration
type Config struct {
	Network        string                  `yaml:"network"`
	Operation      string                  `yaml:"operation"`
	Credentials    credentials.Credentials `yaml:"credentials"`
	Provider       ProviderConfig          `yaml:"provider"`
	Parameters     map[string]string       `yaml:"parameters"`
	ContinueOnFail bool                    `yaml:"continueOnFail"`
	LogLevel       string                  `yaml:"logLevel"`
	Output         string                  `yaml:"output"`
}

// ProviderConfig describes how the provider is reached
type ProviderConfig struct {
	Domain    string             `yaml:"domain"`
	BaseURL   string             `yaml:"baseUrl"`
	Transport provider.Transport `yaml:"transport"`
	Timeout   int                `yaml:"timeout"` // ms, 0 means none
}

// Default values
const (
	DefaultNetwork   = "mainnet"
	DefaultOperation = "getBalance"
	DefaultDomain    = provider.DefaultDomain
	DefaultTransport = provider.TransportHTTP
	DefaultLogLevel  = "info"
	DefaultOutput    = "json"
)

// GetTimeoutDuration returns the provider timeout as time.Duration
func (c *Config) GetTimeoutDuration() time.Duration {
	return time.Duration(c.Provider.Timeout) * time.Millisecond
}

// EndpointConfig returns the provider endpoint settings for this run
func (c *Config) EndpointConfig() provider.EndpointConfig {
	return provider.EndpointConfig{
		Network:   c.Network,
		ProjectID: c.Credentials.ProjectID,
		Domain:    c.Provider.Domain,
		BaseURL:   c.Provider.BaseURL,
	}
}
