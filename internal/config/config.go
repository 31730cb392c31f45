package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"infuranode/internal/credentials"
	"infuranode/internal/items"
	"infuranode/internal/node"
	"infuranode/internal/operation"
	"infuranode/internal/provider"
)

// Load reads the configuration file, if any, applies the environment, then
// override (typically command line flags), defaults and validation.
// An empty path skips the file.
func Load(path string, override func(*Config)) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if override != nil {
		override(cfg)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv reads secrets from the environment
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(credentials.EnvProjectID)); v != "" {
		cfg.Credentials = credentials.New(v)
	}
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.Operation == "" {
		cfg.Operation = DefaultOperation
	}
	if cfg.Provider.Domain == "" {
		cfg.Provider.Domain = DefaultDomain
	}
	if cfg.Provider.Transport == "" {
		cfg.Provider.Transport = DefaultTransport
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	cfg.Credentials = credentials.New(cfg.Credentials.ProjectID)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if err := cfg.Credentials.Validate(); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	if _, err := node.LookupNetwork(cfg.Network); err != nil {
		return err
	}

	op, err := operation.Lookup(cfg.Operation)
	if err != nil {
		return err
	}

	for name := range cfg.Parameters {
		prop, ok := node.FindProperty(name)
		if !ok {
			return fmt.Errorf("parameters: unknown parameter '%s'", name)
		}
		if !prop.ShownFor(op.Operation) {
			return fmt.Errorf("parameters: '%s' is not used by operation '%s'", name, cfg.Operation)
		}
	}

	switch cfg.Provider.Transport {
	case provider.TransportHTTP, provider.TransportWS:
	default:
		return fmt.Errorf("provider.transport must be one of: http, ws")
	}

	if cfg.Provider.Timeout < 0 {
		return errors.New("provider.timeout must be non-negative")
	}

	if _, err := provider.NewEndpoints(cfg.EndpointConfig()); err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("logLevel must be one of: debug, info, warn, error")
	}

	if _, err := items.ParseFormat(cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	return nil
}
