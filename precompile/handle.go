package precompile

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Handle gives a precompile method access to the EVM call it serves.
type Handle interface {
	// Caller returns the address that issued the call.
	Caller() common.Address
	// Address returns the address of the precompile being called.
	Address() common.Address
	// Value returns the amount of native currency sent with the call.
	Value() *uint256.Int
	// IsStatic reports whether the call was made through STATICCALL.
	IsStatic() bool
	// Input returns the call data, selector included.
	Input() []byte

	// RecordCost charges gas, failing with ErrOutOfGas if not enough is left.
	RecordCost(gas uint64) error
	// RefundCost gives back previously charged gas.
	RefundCost(gas uint64)
	// RemainingGas returns the gas still available to the call.
	RemainingGas() uint64
	// UsedGas returns the gas charged so far.
	UsedGas() uint64
}

// CallHandle is the Handle of a single message call.
type CallHandle struct {
	caller   common.Address
	address  common.Address
	value    uint256.Int
	input    []byte
	static   bool
	gasLimit uint64
	used     uint64
}

// NewCallHandle returns a handle for a call of address by caller.
func NewCallHandle(caller, address common.Address, input []byte, value *uint256.Int, gasLimit uint64, static bool) *CallHandle {
	h := &CallHandle{
		caller:   caller,
		address:  address,
		input:    input,
		static:   static,
		gasLimit: gasLimit,
	}
	if value != nil {
		h.value.Set(value)
	}
	return h
}

func (h *CallHandle) Caller() common.Address  { return h.caller }
func (h *CallHandle) Address() common.Address { return h.address }
func (h *CallHandle) Value() *uint256.Int     { return new(uint256.Int).Set(&h.value) }
func (h *CallHandle) IsStatic() bool          { return h.static }
func (h *CallHandle) Input() []byte           { return h.input }
func (h *CallHandle) RemainingGas() uint64    { return h.gasLimit - h.used }
func (h *CallHandle) UsedGas() uint64         { return h.used }

func (h *CallHandle) RecordCost(gas uint64) error {
	if gas > h.RemainingGas() {
		h.used = h.gasLimit
		return ErrOutOfGas
	}
	h.used += gas
	return nil
}

func (h *CallHandle) RefundCost(gas uint64) {
	if gas > h.used {
		gas = h.used
	}
	h.used -= gas
}
