package node

import (
	"fmt"
	"strings"

	"infuranode/internal/operation"
)

// Resolver resolves per-item parameters for one run. A value is taken from
// the item first, then from the run-wide static parameters, then from the
// property default. Only absent or empty values count as unset; anything
// else, surrounding whitespace included, is passed through verbatim.
type Resolver struct {
	operation operation.Operation
	static    map[string]string
	items     []Item
}

// NewResolver creates a Resolver for op over items
func NewResolver(op operation.Operation, static map[string]string, items []Item) *Resolver {
	return &Resolver{
		operation: op,
		static:    static,
		items:     items,
	}
}

// Len returns the number of items
func (r *Resolver) Len() int {
	return len(r.items)
}

// Get resolves parameter name for the item at index
func (r *Resolver) Get(name string, index int) (string, error) {
	if index < 0 || index >= len(r.items) {
		return "", fmt.Errorf("item index %d out of range", index)
	}

	prop, ok := FindProperty(name)
	if !ok || !prop.ShownFor(r.operation) {
		return "", fmt.Errorf("%w: %q for %s", ErrHiddenParameter, name, r.operation)
	}

	value := r.items[index][name]
	if value == "" {
		value = r.static[name]
	}
	if value == "" {
		value = prop.Default
	}
	if prop.Required && strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingParameter, name)
	}
	return value, nil
}

// ForItem returns the parameters of one item
func (r *Resolver) ForItem(index int) operation.Params {
	return operation.ParamsFunc(func(name string) (string, error) {
		return r.Get(name, index)
	})
}
