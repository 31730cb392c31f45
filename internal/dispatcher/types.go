package dispatcher

import (
	"encoding/json"
	"fmt"
)

// Config is fixed for one run and shared by every item
type Config struct {
	Network   string
	Operation string
	// Parameters are run-wide values used when an item does not set one
	Parameters map[string]string
	// ContinueOnFail records a failing item and moves on instead of
	// aborting the run
	ContinueOnFail bool
}

// Result is the outcome of one item: either the provider's reply,
// passed through unchanged, or the error that stopped the item
type Result struct {
	Index    int
	Response json.RawMessage
	Err      error
}

// Failed returns true if the item did not produce a reply
func (r Result) Failed() bool {
	return r.Err != nil
}

// ItemError ties a failure to the index of the item that caused it
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
