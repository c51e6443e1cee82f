package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CallMetadata carries the fields of an EVM message call that the executor
// needs to run it against a precompile. The interpreter builds one for every
// CALL or STATICCALL whose target is a reserved precompile address.
type CallMetadata struct {
	From     common.Address // caller
	To       common.Address // called precompile
	Data     []byte         // calldata, selector first
	Value    *uint256.Int   // may be nil for zero
	GasLimit uint64
	Static   bool // issued through STATICCALL
}
