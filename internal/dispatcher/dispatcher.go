package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"infuranode/internal/blockparam"
	"infuranode/internal/jsonrpc"
	"infuranode/internal/metrics"
	"infuranode/internal/node"
	"infuranode/internal/operation"
	"infuranode/internal/provider"
)

// Dispatcher turns input items into provider calls, one at a time
type Dispatcher struct {
	cfg     Config
	client  provider.Client
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// New creates a new Dispatcher
func New(cfg Config, client provider.Client, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		client:  client,
		metrics: m,
		logger: logger.With().
			Str("component", "dispatcher").
			Str("network", cfg.Network).
			Str("operation", cfg.Operation).
			Logger(),
	}
}

// Execute processes items in order and returns one Result per processed
// item. The network and operation are checked once before any call is made.
//
// Unless ContinueOnFail is set, the first failure stops the run: the results
// gathered so far are returned together with an *ItemError for the failing
// item. With ContinueOnFail every item yields a Result and the error is nil.
func (d *Dispatcher) Execute(ctx context.Context, items []node.Item) ([]Result, error) {
	if _, err := node.LookupNetwork(d.cfg.Network); err != nil {
		return nil, err
	}
	spec, err := operation.Lookup(d.cfg.Operation)
	if err != nil {
		return nil, err
	}

	resolver := node.NewResolver(spec.Operation, d.cfg.Parameters, items)
	results := make([]Result, 0, resolver.Len())

	d.logger.Debug().Int("items", resolver.Len()).Str("method", spec.Method).Msg("starting run")

	for i := 0; i < resolver.Len(); i++ {
		resp, err := d.executeItem(ctx, spec, resolver, i)
		if err != nil {
			itemErr := &ItemError{Index: i, Err: err}
			d.metrics.IncrementItems(d.cfg.Operation, metrics.OutcomeFailure)

			if !d.cfg.ContinueOnFail {
				d.logger.Error().Err(err).Int("item", i).Msg("item failed, aborting run")
				return results, itemErr
			}

			d.logger.Warn().Err(err).Int("item", i).Msg("item failed, continuing")
			results = append(results, Result{Index: i, Err: itemErr})
			continue
		}

		d.metrics.IncrementItems(d.cfg.Operation, metrics.OutcomeSuccess)
		results = append(results, Result{Index: i, Response: resp})
	}

	d.logger.Debug().Int("results", len(results)).Msg("run finished")
	return results, nil
}

func (d *Dispatcher) executeItem(ctx context.Context, spec operation.Spec, resolver *node.Resolver, index int) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params, err := spec.Params(resolver.ForItem(index))
	if err != nil {
		return nil, err
	}

	if spec.Operation == operation.GetBlockByNumber && len(params) > 0 {
		if block, ok := params[0].(string); ok {
			d.logger.Debug().Int("item", index).Str("block", block).Bool("tag", blockparam.IsTag(block)).Msg("block argument")
		}
	}

	req, err := jsonrpc.NewRequest(spec.Method, params, jsonrpc.DefaultID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := d.client.Call(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		d.metrics.ObserveRequest(spec.Method, metrics.OutcomeFailure, elapsed)
		return nil, fmt.Errorf("%s: %w", spec.Method, err)
	}

	outcome := metrics.OutcomeSuccess
	if envelope, err := jsonrpc.Inspect(raw); err == nil {
		switch {
		case envelope.HasError():
			outcome = metrics.OutcomeRPCError
			d.logger.Debug().
				Int("item", index).
				Int("code", envelope.Error.Code).
				Str("message", envelope.Error.Message).
				Msg("provider returned JSON-RPC error")
		case envelope.ResultIsNull():
			// unknown tx hash, unmined block: still a reply
			d.logger.Debug().Int("item", index).Msg("provider returned null result")
		}
	}
	d.metrics.ObserveRequest(spec.Method, outcome, elapsed)

	d.logger.Debug().Int("item", index).Dur("elapsed", elapsed).Msg("item done")
	return raw, nil
}
