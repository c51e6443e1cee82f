// Package faucet exposes the test network faucet to EVM contracts.
package faucet

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
)

// Address is where the faucet precompile is served.
var Address = precompile.AddressAt(0x804)

// New returns the faucet precompile dispatching into rt.
func New(rt precompile.Runtime) *precompile.Precompile {
	return precompile.New("faucet", precompile.Method{
		Signature: solidity.FunctionSignature("requestFunds", solidity.Address, solidity.Uint256),
		Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
			who, err := solidity.Read(args, solidity.Address, "who")
			if err != nil {
				return nil, err
			}
			value, err := solidity.Read(args, solidity.Uint256, "amount")
			if err != nil {
				return nil, err
			}
			amount, err := precompile.ToBalance(rt, value, "amount type")
			if err != nil {
				return nil, err
			}
			call := native.FaucetRequestFunds{Who: rt.IntoAccountID(who), Amount: amount}
			_, err = precompile.TryDispatch(h, rt, precompile.CallerOrigin(h, rt), call)
			return nil, err
		},
	})
}
