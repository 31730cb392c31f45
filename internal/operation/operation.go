package operation

import (
	"fmt"

	"infuranode/internal/blockparam"
)

// builder produces the params array for one item
type builder func(p Params) ([]interface{}, error)

// Spec binds an operation to its JSON-RPC method and params builder
type Spec struct {
	Operation Operation
	Method    string
	build     builder
}

var table = map[Operation]Spec{
	GetBalance:       {Operation: GetBalance, Method: "eth_getBalance", build: buildGetBalance},
	GetBlockByNumber: {Operation: GetBlockByNumber, Method: "eth_getBlockByNumber", build: buildGetBlockByNumber},
	GetTxByHash:      {Operation: GetTxByHash, Method: "eth_getTransactionByHash", build: buildGetTxByHash},
	GetLogs:          {Operation: GetLogs, Method: "eth_getLogs", build: buildGetLogs},
	Call:             {Operation: Call, Method: "eth_call", build: buildCall},
	GetGasPrice:      {Operation: GetGasPrice, Method: "eth_gasPrice", build: buildGetGasPrice},
	SendRawTx:        {Operation: SendRawTx, Method: "eth_sendRawTransaction", build: buildSendRawTx},
}

// All returns every supported operation in a stable order
func All() []Operation {
	return []Operation{GetBalance, GetBlockByNumber, GetTxByHash, GetLogs, Call, GetGasPrice, SendRawTx}
}

// Lookup returns the table entry for op or ErrUnknownOperation
func Lookup(op string) (Spec, error) {
	spec, ok := table[Operation(op)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return spec, nil
}

// Build returns the method name and params array for op given the item's
// parameters
func Build(op string, p Params) (string, []interface{}, error) {
	spec, err := Lookup(op)
	if err != nil {
		return "", nil, err
	}
	params, err := spec.Params(p)
	if err != nil {
		return "", nil, err
	}
	return spec.Method, params, nil
}

// Params builds the params array for one item
func (s Spec) Params(p Params) ([]interface{}, error) {
	return s.build(p)
}

func buildGetBalance(p Params) ([]interface{}, error) {
	address, err := p.Get(ParamAddress)
	if err != nil {
		return nil, err
	}
	return []interface{}{address, blockparam.Latest}, nil
}

func buildGetBlockByNumber(p Params) ([]interface{}, error) {
	blockNumber, err := p.Get(ParamBlockNumber)
	if err != nil {
		return nil, err
	}
	return []interface{}{blockparam.Normalize(blockNumber), true}, nil
}

func buildGetTxByHash(p Params) ([]interface{}, error) {
	txHash, err := p.Get(ParamTxHash)
	if err != nil {
		return nil, err
	}
	return []interface{}{txHash}, nil
}

func buildGetLogs(p Params) ([]interface{}, error) {
	values, err := getAll(p, ParamAddress, ParamLogsFromBlock, ParamLogsToBlock, ParamLogsTopic0)
	if err != nil {
		return nil, err
	}

	filter := LogFilter{
		Address:   values[0],
		FromBlock: values[1],
		ToBlock:   values[2],
	}
	if topic0 := values[3]; topic0 != "" {
		filter.Topics = []string{topic0}
	}
	return []interface{}{filter}, nil
}

func buildCall(p Params) ([]interface{}, error) {
	values, err := getAll(p, ParamCallTo, ParamCallData)
	if err != nil {
		return nil, err
	}
	return []interface{}{CallMsg{To: values[0], Data: values[1]}, blockparam.Latest}, nil
}

func buildGetGasPrice(Params) ([]interface{}, error) {
	return []interface{}{}, nil
}

func buildSendRawTx(p Params) ([]interface{}, error) {
	rawTx, err := p.Get(ParamRawTx)
	if err != nil {
		return nil, err
	}
	return []interface{}{rawTx}, nil
}

func getAll(p Params, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v, err := p.Get(name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
