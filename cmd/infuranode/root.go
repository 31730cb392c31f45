package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"infuranode/internal/config"
	"infuranode/internal/credentials"
	"infuranode/internal/dispatcher"
	"infuranode/internal/items"
	"infuranode/internal/metrics"
	"infuranode/internal/node"
	"infuranode/internal/provider"
)

const (
	flagConfig         = "config"
	flagNetwork        = "network"
	flagOperation      = "operation"
	flagProjectID      = "project-id"
	flagParam          = "param"
	flagInput          = "input"
	flagOutput         = "output"
	flagTransport      = "transport"
	flagTimeout        = "timeout"
	flagBaseURL        = "base-url"
	flagDomain         = "domain"
	flagContinueOnFail = "continue-on-fail"
	flagLogLevel       = "log-level"
	flagMetricsFile    = "metrics-file"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infuranode",
		Short: "Forward items as Ethereum JSON-RPC calls to a hosted node provider",
		Long: `infuranode reads input items (a JSON array or NDJSON) and, for each item,
issues one JSON-RPC call to https://{network}.infura.io/v3/{projectId}.
The raw replies are written to stdout in input order.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	registerFlags(cmd.Flags())
	cmd.AddCommand(newDescribeCommand())
	return cmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP(flagConfig, "c", "", "path to config file (YAML or JSON)")
	flags.StringP(flagNetwork, "n", config.DefaultNetwork, "network: mainnet, hoodi or sepolia")
	flags.StringP(flagOperation, "o", config.DefaultOperation, "operation to run for every item")
	flags.String(flagProjectID, "", "provider project id (or "+credentials.EnvProjectID+")")
	flags.StringToStringP(flagParam, "p", nil, "run-wide parameter used when an item does not set it, e.g. -p address=0x...")
	flags.StringP(flagInput, "i", "-", "input items file, - for stdin")
	flags.String(flagOutput, config.DefaultOutput, "output format: json or ndjson")
	flags.String(flagTransport, string(config.DefaultTransport), "transport: http or ws")
	flags.Int(flagTimeout, 0, "per-request timeout in ms, 0 for none")
	flags.String(flagBaseURL, "", "override https://{network}.{domain}, e.g. a local gateway")
	flags.String(flagDomain, config.DefaultDomain, "provider domain")
	flags.Bool(flagContinueOnFail, false, "record failing items and keep going instead of aborting")
	flags.String(flagLogLevel, config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.String(flagMetricsFile, "", "write Prometheus metrics in text format to this file after the run")
}

// applyFlags copies explicitly set flags over the file configuration
func applyFlags(flags *pflag.FlagSet) func(*config.Config) {
	return func(cfg *config.Config) {
		if flags.Changed(flagNetwork) {
			cfg.Network, _ = flags.GetString(flagNetwork)
		}
		if flags.Changed(flagOperation) {
			cfg.Operation, _ = flags.GetString(flagOperation)
		}
		if flags.Changed(flagProjectID) {
			v, _ := flags.GetString(flagProjectID)
			cfg.Credentials = credentials.New(v)
		}
		if flags.Changed(flagParam) {
			params, _ := flags.GetStringToString(flagParam)
			if cfg.Parameters == nil {
				cfg.Parameters = make(map[string]string, len(params))
			}
			for k, v := range params {
				cfg.Parameters[k] = v
			}
		}
		if flags.Changed(flagOutput) {
			cfg.Output, _ = flags.GetString(flagOutput)
		}
		if flags.Changed(flagTransport) {
			v, _ := flags.GetString(flagTransport)
			cfg.Provider.Transport = provider.Transport(v)
		}
		if flags.Changed(flagTimeout) {
			cfg.Provider.Timeout, _ = flags.GetInt(flagTimeout)
		}
		if flags.Changed(flagBaseURL) {
			cfg.Provider.BaseURL, _ = flags.GetString(flagBaseURL)
		}
		if flags.Changed(flagDomain) {
			cfg.Provider.Domain, _ = flags.GetString(flagDomain)
		}
		if flags.Changed(flagContinueOnFail) {
			cfg.ContinueOnFail, _ = flags.GetBool(flagContinueOnFail)
		}
		if flags.Changed(flagLogLevel) {
			cfg.LogLevel, _ = flags.GetString(flagLogLevel)
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString(flagConfig)

	cfg, err := config.Load(configPath, applyFlags(flags))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.LogLevel)
	logger.Info().
		Str("config", configPath).
		Str("network", cfg.Network).
		Str("operation", cfg.Operation).
		Str("transport", string(cfg.Provider.Transport)).
		Object("credentials", cfg.Credentials).
		Msg("starting infuranode")

	inputPath, _ := flags.GetString(flagInput)
	input, err := readInput(cmd.InOrStdin(), inputPath)
	if err != nil {
		return err
	}

	format, err := items.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	endpoints, err := provider.NewEndpoints(cfg.EndpointConfig())
	if err != nil {
		return err
	}
	client, err := provider.New(cfg.Provider.Transport, endpoints, cfg.GetTimeoutDuration(), cfg.Credentials.Redact, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	registry := prometheus.NewRegistry()
	d := dispatcher.New(dispatcher.Config{
		Network:        cfg.Network,
		Operation:      cfg.Operation,
		Parameters:     cfg.Parameters,
		ContinueOnFail: cfg.ContinueOnFail,
	}, client, metrics.NewMetrics(registry), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, runErr := d.Execute(ctx, input)

	metricsFile, _ := flags.GetString(flagMetricsFile)
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			logger.Warn().Err(err).Str("file", metricsFile).Msg("failed to write metrics")
		}
	}

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}

	if err := items.Write(cmd.OutOrStdout(), results, format); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info().Int("items", len(input)).Int("results", len(results)).Msg("run complete")
	return nil
}

func readInput(stdin io.Reader, path string) ([]node.Item, error) {
	if path == "-" || path == "" {
		return items.Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return items.Read(f)
}

// description is what describe prints
type description struct {
	Credential credentials.Descriptor `json:"credential"`
	Networks   []node.Option          `json:"networks"`
	Operations []node.Option          `json:"operations"`
	Properties []node.Property        `json:"properties"`
}

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the credential and parameter descriptions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(description{
				Credential: credentials.InfuraAPI,
				Networks:   node.Networks,
				Operations: node.Operations,
				Properties: node.Properties,
			})
		},
	}
}
