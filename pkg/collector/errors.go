// ABOUTME: Error records for isolated collector failures
// ABOUTME: Batched by the engine, never silently dropped

package collector

import "fmt"

// Op identifies which protocol call failed.
type Op string

const (
	OpOnToken  Op = "on_token"
	OpFinalize Op = "finalize"
)

// FinalizeIndex is the TokenIndex recorded for failures outside the token
// loop.
const FinalizeIndex = -1

// Error records one isolated collector failure. The engine batches these
// and returns them alongside the partial result.
type Error struct {
	Collector  string `json:"collector"`
	TokenIndex int    `json:"token_index"`
	Op         Op     `json:"op"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

// NewError builds an Error record, capturing err's message for
// serialization.
func NewError(name string, index int, op Op, err error) Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Error{Collector: name, TokenIndex: index, Op: op, Err: err, Message: msg}
}

func (e Error) Error() string {
	if e.TokenIndex == FinalizeIndex {
		return fmt.Sprintf("collector %q: %s: %v", e.Collector, e.Op, e.Err)
	}
	return fmt.Sprintf("collector %q: %s at token %d: %v", e.Collector, e.Op, e.TokenIndex, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is/As.
func (e Error) Unwrap() error { return e.Err }
