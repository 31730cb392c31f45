package node

import (
	"errors"

	"infuranode/internal/operation"
)

// Network selects the provider subdomain
type Network string

const (
	Mainnet Network = "mainnet"
	Hoodi   Network = "hoodi"
	Sepolia Network = "sepolia"
)

// Defaults for the run-wide selectors
const (
	DefaultNetwork   = Mainnet
	DefaultOperation = operation.GetBalance
)

var (
	ErrUnknownNetwork   = errors.New("unknown network")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrHiddenParameter  = errors.New("parameter not available for operation")
)

// Option is one value of a selector
type Option struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
}

// Property is a per-item string parameter, shown only for some operations
type Property struct {
	Name        string                `json:"name"`
	DisplayName string                `json:"displayName"`
	Default     string                `json:"default"`
	Required    bool                  `json:"required,omitempty"`
	Description string                `json:"description,omitempty"`
	ShowFor     []operation.Operation `json:"showFor"`
}

// ShownFor reports whether the property applies to op
func (p Property) ShownFor(op operation.Operation) bool {
	for _, o := range p.ShowFor {
		if o == op {
			return true
		}
	}
	return false
}

// Item is one input record: parameter name to value
type Item map[string]string
