package node

import (
	"fmt"

	"infuranode/internal/blockparam"
	"infuranode/internal/operation"
)

// Networks lists the selectable networks
var Networks = []Option{
	{Name: "Ethereum Mainnet", Value: string(Mainnet)},
	{Name: "Hoodi Testnet", Value: string(Hoodi)},
	{Name: "Sepolia Testnet", Value: string(Sepolia)},
}

// Operations lists the selectable operations
var Operations = []Option{
	{Name: "Contract Call", Value: string(operation.Call), Description: "Call smart contract (read-only)", Action: "Call smart contract read only"},
	{Name: "Get Balance", Value: string(operation.GetBalance), Description: "Get ETH balance for address", Action: "Get ETH balance for address"},
	{Name: "Get Block by Number", Value: string(operation.GetBlockByNumber), Description: "Fetch block details", Action: "Fetch block details"},
	{Name: "Get Gas Price", Value: string(operation.GetGasPrice), Description: "Get current gas price", Action: "Get current gas price"},
	{Name: "Get Logs", Value: string(operation.GetLogs), Description: "Query contract logs/events", Action: "Query contract logs events"},
	{Name: "Get Transaction by Hash", Value: string(operation.GetTxByHash), Description: "Get transaction details", Action: "Get transaction details"},
	{Name: "Send Raw Transaction", Value: string(operation.SendRawTx), Description: "Send signed transaction", Action: "Send signed transaction"},
}

// Properties lists the per-item parameters
var Properties = []Property{
	{
		Name:        operation.ParamAddress,
		DisplayName: "Address",
		Required:    true,
		Description: "Ethereum address",
		ShowFor:     []operation.Operation{operation.GetBalance, operation.GetLogs},
	},
	{
		Name:        operation.ParamBlockNumber,
		DisplayName: "Block Number",
		Default:     blockparam.Latest,
		Description: `Block number (decimal or "latest")`,
		ShowFor:     []operation.Operation{operation.GetBlockByNumber},
	},
	{
		Name:        operation.ParamTxHash,
		DisplayName: "Transaction Hash",
		ShowFor:     []operation.Operation{operation.GetTxByHash},
	},
	{
		Name:        operation.ParamLogsFromBlock,
		DisplayName: "Logs: From Block",
		Default:     blockparam.Latest,
		Description: `Start block (e.g. "0x1" or "latest")`,
		ShowFor:     []operation.Operation{operation.GetLogs},
	},
	{
		Name:        operation.ParamLogsToBlock,
		DisplayName: "Logs: To Block",
		Default:     blockparam.Latest,
		Description: `End block (e.g. "latest")`,
		ShowFor:     []operation.Operation{operation.GetLogs},
	},
	{
		Name:        operation.ParamLogsTopic0,
		DisplayName: "Logs: Topic0",
		Description: "First topic (event signature hash)",
		ShowFor:     []operation.Operation{operation.GetLogs},
	},
	{
		Name:        operation.ParamCallTo,
		DisplayName: "Contract Call: To Address",
		Description: "Contract address",
		ShowFor:     []operation.Operation{operation.Call},
	},
	{
		Name:        operation.ParamCallData,
		DisplayName: "Contract Call: Data",
		Description: "ABI-encoded data",
		ShowFor:     []operation.Operation{operation.Call},
	},
	{
		Name:        operation.ParamRawTx,
		DisplayName: "Raw Transaction Data",
		Description: "Raw signed transaction data (0x...)",
		ShowFor:     []operation.Operation{operation.SendRawTx},
	},
}

// LookupNetwork validates a network identifier
func LookupNetwork(v string) (Network, error) {
	for _, o := range Networks {
		if o.Value == v {
			return Network(v), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, v)
}

// FindProperty returns the property with the given name
func FindProperty(name string) (Property, bool) {
	for _, p := range Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// PropertiesFor returns the properties shown for op
func PropertiesFor(op operation.Operation) []Property {
	var props []Property
	for _, p := range Properties {
		if p.ShownFor(op) {
			props = append(props, p)
		}
	}
	return props
}
