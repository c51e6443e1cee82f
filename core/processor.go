// Package core applies batches of precompile messages the way a block
// executes its extrinsics: sequentially, against one gas pool.
package core

import (
	"errors"
	"fmt"

	"github.com/atleta-network/atleta/core/vm"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// ErrGasLimitReached is returned if a message asks for more gas than the
// block has left.
var ErrGasLimitReached = errors.New("gas limit reached")

// GasPool tracks the amount of gas available during execution of the
// messages in a block.
type GasPool uint64

// SubGas deducts the given amount from the pool if enough gas is available.
func (gp *GasPool) SubGas(amount uint64) error {
	if uint64(*gp) < amount {
		return ErrGasLimitReached
	}
	*gp -= GasPool(amount)
	return nil
}

// AddGas makes gas available for execution.
func (gp *GasPool) AddGas(amount uint64) {
	*gp += GasPool(amount)
}

// Gas returns the amount of gas remaining in the pool.
func (gp GasPool) Gas() uint64 { return uint64(gp) }

// Receipt is the result of one message.
type Receipt struct {
	Status            uint64 // types.ReceiptStatusSuccessful or types.ReceiptStatusFailed
	GasUsed           uint64
	CumulativeGasUsed uint64
	ReturnData        []byte
	Reason            string
}

// ProcessResult is the result of processing a block of messages.
type ProcessResult struct {
	Receipts []*Receipt
	GasUsed  uint64
}

// Finalizer is notified after every processed block.
type Finalizer interface {
	AdvanceBlocks(n uint64)
}

// StateProcessor runs blocks of messages through an executor.
type StateProcessor struct {
	exec     vm.Executor
	finalize Finalizer
}

// NewStateProcessor returns a processor running on exec. finalize may be nil.
func NewStateProcessor(exec vm.Executor, finalize Finalizer) *StateProcessor {
	return &StateProcessor{exec: exec, finalize: finalize}
}

// Process executes msgs in order within gasLimit. Execution failures of
// individual messages are reported in their receipts; only messages that
// cannot be executed at all fail the block.
func (p *StateProcessor) Process(msgs []vm.CallMetadata, gasLimit uint64) (*ProcessResult, error) {
	var (
		gp       = GasPool(gasLimit)
		usedGas  uint64
		receipts = make([]*Receipt, 0, len(msgs))
	)
	for i, msg := range msgs {
		if err := gp.SubGas(msg.GasLimit); err != nil {
			return nil, fmt.Errorf("could not apply msg %d [%v]: %w", i, msg.From, err)
		}
		res, err := p.exec.Call(msg)
		if err != nil {
			return nil, fmt.Errorf("could not apply msg %d [%v]: %w", i, msg.From, err)
		}
		gp.AddGas(msg.GasLimit - res.UsedGas)
		usedGas += res.UsedGas

		receipt := &Receipt{
			Status:            types.ReceiptStatusSuccessful,
			GasUsed:           res.UsedGas,
			CumulativeGasUsed: usedGas,
			ReturnData:        res.ReturnData,
		}
		if res.Failed() {
			receipt.Status = types.ReceiptStatusFailed
			receipt.Reason = res.Reason
		}
		receipts = append(receipts, receipt)
	}
	if p.finalize != nil {
		p.finalize.AdvanceBlocks(1)
	}
	log.Debug("Processed block", "engine", p.exec.Engine(), "msgs", len(msgs), "gas", usedGas)
	return &ProcessResult{Receipts: receipts, GasUsed: usedGas}, nil
}
