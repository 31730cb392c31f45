package operation

import "errors"

// Operation identifies one of the supported provider calls
type Operation string

const (
	GetBalance       Operation = "getBalance"
	GetBlockByNumber Operation = "getBlockByNumber"
	GetTxByHash      Operation = "getTxByHash"
	GetLogs          Operation = "getLogs"
	Call             Operation = "call"
	GetGasPrice      Operation = "getGasPrice"
	SendRawTx        Operation = "sendRawTx"
)

// Parameter names read per item
const (
	ParamAddress       = "address"
	ParamBlockNumber   = "blockNumber"
	ParamTxHash        = "txHash"
	ParamLogsFromBlock = "logsFromBlock"
	ParamLogsToBlock   = "logsToBlock"
	ParamLogsTopic0    = "logsTopic0"
	ParamCallTo        = "callTo"
	ParamCallData      = "callData"
	ParamRawTx         = "rawTx"
)

// ErrUnknownOperation is returned for operation identifiers outside the table
var ErrUnknownOperation = errors.New("unknown operation selected")

// Params resolves a named per-item parameter
type Params interface {
	Get(name string) (string, error)
}

// ParamsFunc adapts a function to Params
type ParamsFunc func(name string) (string, error)

// Get implements Params
func (f ParamsFunc) Get(name string) (string, error) {
	return f(name)
}

// LogFilter is the single argument of eth_getLogs. Topics is omitted
// entirely when no topic is given.
type LogFilter struct {
	Address   string   `json:"address"`
	FromBlock string   `json:"fromBlock"`
	ToBlock   string   `json:"toBlock"`
	Topics    []string `json:"topics,omitempty"`
}

// CallMsg is the transaction object of eth_call
type CallMsg struct {
	To   string `json:"to"`
	Data string `json:"data"`
}
