// Package treasury lets EVM accounts propose treasury spends.
package treasury

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
)

// Address is where the treasury precompile is served.
var Address = precompile.AddressAt(0x802)

// Runtime is what the treasury precompile needs from the native runtime.
type Runtime interface {
	precompile.Runtime
	precompile.AccountLookup
}

// New returns the treasury precompile dispatching into rt. The beneficiary
// must be a registered account.
func New(rt Runtime) *precompile.Precompile {
	return precompile.New("treasury", precompile.Method{
		Signature: solidity.FunctionSignature("proposeSpend", solidity.Uint256, solidity.Address),
		Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
			value, err := solidity.Read(args, solidity.Uint256, "value")
			if err != nil {
				return nil, err
			}
			beneficiary, err := solidity.Read(args, solidity.Address, "beneficiary")
			if err != nil {
				return nil, err
			}
			amount, err := precompile.ToBalance(rt, value, "amount type")
			if err != nil {
				return nil, err
			}
			who, err := precompile.LookupAddress(rt, rt, beneficiary)
			if err != nil {
				return nil, err
			}
			call := native.TreasuryProposeSpend{Value: amount, Beneficiary: who}
			_, err = precompile.TryDispatch(h, rt, precompile.CallerOrigin(h, rt), call)
			return nil, err
		},
	})
}
