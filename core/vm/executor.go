// Package vm runs EVM message calls addressed to native precompiles and
// translates their outcome into the interpreter's result format.
package vm

import (
	"errors"
	"fmt"

	"github.com/atleta-network/atleta/precompile"
	"github.com/ethereum/go-ethereum/common"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
)

// ErrNotPrecompile is returned for calls to an address without a precompile.
var ErrNotPrecompile = errors.New("no precompile at address")

// Executor runs message calls on a VM backend.
type Executor interface {
	// Engine returns a human-readable short name identifying the backend.
	Engine() string
	// Call executes msg. The error is only set if the message could not be
	// executed at all; execution failures are reported in the result.
	Call(msg CallMetadata) (*ExecutionResult, error)
}

// ExecutionResult is the outcome of a message call, in the same shape the
// interpreter uses for contract calls.
type ExecutionResult struct {
	UsedGas    uint64
	Err        error  // gethvm.ErrExecutionReverted, gethvm.ErrOutOfGas or an exit failure
	ReturnData []byte // returned data, or the revert payload
	Reason     string // revert or failure reason, if Err is set
}

// Failed reports whether the call failed.
func (r *ExecutionResult) Failed() bool { return r.Err != nil }

// Return returns the data of a successful call.
func (r *ExecutionResult) Return() []byte {
	if r.Err != nil {
		return nil
	}
	return common.CopyBytes(r.ReturnData)
}

// Revert returns the revert payload of a reverted call.
func (r *ExecutionResult) Revert() []byte {
	if !errors.Is(r.Err, gethvm.ErrExecutionReverted) {
		return nil
	}
	return common.CopyBytes(r.ReturnData)
}

// Unwrap returns the execution error.
func (r *ExecutionResult) Unwrap() error { return r.Err }

type precompileExecutor struct {
	set *precompile.Set
}

// NewExecutor returns an executor serving the precompiles in set.
func NewExecutor(set *precompile.Set) Executor {
	return &precompileExecutor{set: set}
}

func (e *precompileExecutor) Engine() string { return "precompile" }

func (e *precompileExecutor) Call(msg CallMetadata) (*ExecutionResult, error) {
	p, ok := e.set.Get(msg.To)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNotPrecompile, msg.To)
	}
	h := precompile.NewCallHandle(msg.From, msg.To, msg.Data, msg.Value, msg.GasLimit, msg.Static)
	out := p.Execute(h)

	res := &ExecutionResult{UsedGas: out.GasUsed, ReturnData: out.Output, Reason: out.Reason}
	switch out.Status {
	case precompile.StatusReverted:
		res.Err = gethvm.ErrExecutionReverted
	case precompile.StatusErrored:
		if out.Exit == precompile.ExitOutOfGas {
			res.Err = gethvm.ErrOutOfGas
		} else {
			res.Err = errors.New(out.Reason)
		}
	}
	log.Debug("Executed precompile call", "precompile", p.Name(), "from", msg.From, "status", out.Status, "gas", out.GasUsed, "reason", out.Reason)
	return res, nil
}
