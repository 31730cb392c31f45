package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infuranode/internal/jsonrpc"
	"infuranode/internal/metrics"
	"infuranode/internal/node"
	"infuranode/internal/operation"
	"infuranode/internal/provider"
)

// mockClient records requests and replies from a callback
type mockClient struct {
	requests []*jsonrpc.Request
	reply    func(n int, req *jsonrpc.Request) (json.RawMessage, error)
}

func (m *mockClient) Call(_ context.Context, req *jsonrpc.Request) (json.RawMessage, error) {
	m.requests = append(m.requests, req)
	return m.reply(len(m.requests)-1, req)
}

func (m *mockClient) Close() {}

func echoReply(n int, req *jsonrpc.Request) (json.RawMessage, error) {
	return json.RawMessage(fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":{"call":%d,"params":%s}}`, n, req.Params)), nil
}

func balanceItems(n int) []node.Item {
	items := make([]node.Item, n)
	for i := range items {
		items[i] = node.Item{"address": fmt.Sprintf("0x%040x", i)}
	}
	return items
}

func newDispatcher(cfg Config, client provider.Client) *Dispatcher {
	return New(cfg, client, nil, zerolog.Nop())
}

func TestExecute_OneResultPerItemInOrder(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getBalance"}, client)

	results, err := d.Execute(context.Background(), balanceItems(4))
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.Len(t, client.requests, 4)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.False(t, r.Failed())
		assert.JSONEq(t,
			fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":{"call":%d,"params":["0x%040x","latest"]}}`, i, i),
			string(r.Response))
		assert.Equal(t, "eth_getBalance", client.requests[i].Method)
	}
}

func TestExecute_ZeroItems(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getGasPrice"}, client)

	results, err := d.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, client.requests)
}

func TestExecute_UnknownOperationMakesNoCalls(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getCode"}, client)

	results, err := d.Execute(context.Background(), balanceItems(3))
	assert.ErrorIs(t, err, operation.ErrUnknownOperation)
	assert.Nil(t, results)
	assert.Empty(t, client.requests)
}

func TestExecute_UnknownNetworkMakesNoCalls(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "ropsten", Operation: "getGasPrice"}, client)

	_, err := d.Execute(context.Background(), balanceItems(1))
	assert.ErrorIs(t, err, node.ErrUnknownNetwork)
	assert.Empty(t, client.requests)
}

func TestExecute_FailureAbortsRun(t *testing.T) {
	boom := errors.New("connection reset")
	client := &mockClient{reply: func(n int, req *jsonrpc.Request) (json.RawMessage, error) {
		if n == 2 {
			return nil, boom
		}
		return echoReply(n, req)
	}}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getBalance"}, client)

	results, err := d.Execute(context.Background(), balanceItems(5))

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 2, itemErr.Index)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "item 2")

	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Len(t, client.requests, 3)
}

func TestExecute_ParameterFailureAbortsBeforeCall(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getBalance"}, client)

	items := balanceItems(3)
	items[1] = node.Item{}

	results, err := d.Execute(context.Background(), items)

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 1, itemErr.Index)
	assert.ErrorIs(t, err, node.ErrMissingParameter)
	assert.Len(t, results, 1)
	assert.Len(t, client.requests, 1)
}

func TestExecute_ContinueOnFail(t *testing.T) {
	client := &mockClient{reply: func(n int, req *jsonrpc.Request) (json.RawMessage, error) {
		if n == 2 {
			return nil, errors.New("timeout")
		}
		return echoReply(n, req)
	}}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getBalance", ContinueOnFail: true}, client)

	results, err := d.Execute(context.Background(), balanceItems(5))
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Len(t, client.requests, 5)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if i == 2 {
			require.True(t, r.Failed())
			var itemErr *ItemError
			require.ErrorAs(t, r.Err, &itemErr)
			assert.Equal(t, 2, itemErr.Index)
			assert.Nil(t, r.Response)
			continue
		}
		assert.False(t, r.Failed())
	}
}

func TestExecute_RPCErrorIsPassedThrough(t *testing.T) {
	const reply = `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"already known"}}`
	client := &mockClient{reply: func(int, *jsonrpc.Request) (json.RawMessage, error) {
		return json.RawMessage(reply), nil
	}}
	d := newDispatcher(Config{Network: "sepolia", Operation: "sendRawTx"}, client)

	results, err := d.Execute(context.Background(), []node.Item{{"rawTx": "0xf86c"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, reply, string(results[0].Response))
}

func TestExecute_PerItemParametersVary(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{
		Network:    "mainnet",
		Operation:  "getLogs",
		Parameters: map[string]string{"address": "0xfeed"},
	}, client)

	items := []node.Item{
		{"logsTopic0": "0xabc"},
		{"address": "0xbeef", "logsFromBlock": "0x1", "logsToBlock": "0x2"},
	}
	_, err := d.Execute(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, client.requests, 2)

	assert.JSONEq(t, `[{"address":"0xfeed","fromBlock":"latest","toBlock":"latest","topics":["0xabc"]}]`, string(client.requests[0].Params))
	assert.JSONEq(t, `[{"address":"0xbeef","fromBlock":"0x1","toBlock":"0x2"}]`, string(client.requests[1].Params))
}

func TestExecute_CancelledContext(t *testing.T) {
	client := &mockClient{reply: echoReply}
	d := newDispatcher(Config{Network: "mainnet", Operation: "getGasPrice"}, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Execute(ctx, []node.Item{{}})
	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 0, itemErr.Index)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.requests)
}

func TestExecute_DebugLogsBlockTagAndNullResult(t *testing.T) {
	client := &mockClient{reply: func(int, *jsonrpc.Request) (json.RawMessage, error) {
		return json.RawMessage(`{"jsonrpc":"2.0","id":1,"result":null}`), nil
	}}
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	d := New(Config{Network: "mainnet", Operation: "getBlockByNumber"}, client, nil, logger)

	results, err := d.Execute(context.Background(), []node.Item{{"blockNumber": "latest"}, {"blockNumber": "123"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":null}`, string(results[0].Response))

	logs := buf.String()
	assert.Contains(t, logs, `"block":"latest","tag":true`)
	assert.Contains(t, logs, `"block":"0x7b","tag":false`)
	assert.Contains(t, logs, "provider returned null result")
}

func TestExecute_Metrics(t *testing.T) {
	client := &mockClient{reply: func(n int, req *jsonrpc.Request) (json.RawMessage, error) {
		if n == 1 {
			return json.RawMessage(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid argument"}}`), nil
		}
		return echoReply(n, req)
	}}
	reg := prometheus.NewRegistry()
	d := New(Config{Network: "mainnet", Operation: "getBalance"}, client, metrics.NewMetrics(reg), zerolog.Nop())

	_, err := d.Execute(context.Background(), balanceItems(3))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "infuranode_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(reg, "infuranode_items_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExecute_OverHTTP(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/project", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"number":"0x7b"}}`))
	}))
	defer srv.Close()

	ep, err := provider.NewEndpoints(provider.EndpointConfig{Network: "mainnet", ProjectID: "project", BaseURL: srv.URL})
	require.NoError(t, err)
	client := provider.NewHTTPClient(provider.HTTPConfig{URL: ep.HTTP, Logger: zerolog.Nop()})
	defer client.Close()

	d := newDispatcher(Config{Network: "mainnet", Operation: "getBlockByNumber"}, client)
	results, err := d.Execute(context.Background(), []node.Item{{"blockNumber": "123"}, {"blockNumber": "latest"}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"method":"eth_getBlockByNumber","params":["0x7b",true]}`, bodies[0])
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"method":"eth_getBlockByNumber","params":["latest",true]}`, bodies[1])
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"number":"0x7b"}}`, string(results[0].Response))
}
