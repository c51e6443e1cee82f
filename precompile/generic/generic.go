// Package generic holds small account queries that do not belong to a
// single pallet.
package generic

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
)

// Address is where the generic precompile is served.
var Address = precompile.AddressAt(0x806)

// BalanceReader reads account balances from storage.
type BalanceReader interface {
	FreeBalance(who native.AccountID) native.Balance
}

// Runtime is what the generic precompile needs from the native runtime.
type Runtime interface {
	precompile.AddressMapping
	precompile.GasSchedule
	BalanceReader
}

// New returns the generic precompile reading from rt.
func New(rt Runtime) *precompile.Precompile {
	return precompile.New("generic", precompile.Method{
		Signature: solidity.FunctionSignature("available", solidity.Address),
		View:      true,
		Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
			who, err := solidity.Read(args, solidity.Address, "who")
			if err != nil {
				return nil, err
			}
			if err := precompile.RecordDBRead(h, rt); err != nil {
				return nil, err
			}
			free := rt.FreeBalance(rt.IntoAccountID(who))
			return solidity.Encode(solidity.Uint256, *free.U256()), nil
		},
	})
}
