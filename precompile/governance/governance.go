// Package governance lets EVM accounts submit public democracy proposals.
package governance

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Address is where the governance precompile is served.
var Address = precompile.AddressAt(0x801)

// New returns the governance precompile dispatching into rt.
func New(rt precompile.Runtime) *precompile.Precompile {
	propose := func(h precompile.Handle, proposal native.BoundedCall, value uint256.Int) ([]byte, error) {
		amount, err := precompile.ToBalance(rt, value, "amount type")
		if err != nil {
			return nil, err
		}
		call := native.DemocracyPropose{Proposal: proposal, Value: amount}
		_, err = precompile.TryDispatch(h, rt, precompile.CallerOrigin(h, rt), call)
		return nil, err
	}
	return precompile.New("governance",
		precompile.Method{
			Signature: solidity.FunctionSignature("propose", solidity.Array(solidity.Uint8), solidity.Uint256),
			Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
				encoded, err := solidity.Read(args, solidity.Array(solidity.Uint8), "boundedCall")
				if err != nil {
					return nil, err
				}
				value, err := solidity.Read(args, solidity.Uint256, "value")
				if err != nil {
					return nil, err
				}
				proposal, err := native.InlineCall(encoded)
				if err != nil {
					return nil, precompile.Revert("Unable to parse bounded call")
				}
				return propose(h, proposal, value)
			},
		},
		precompile.Method{
			Signature: solidity.FunctionSignature("propose", solidity.Bytes32, solidity.Uint256),
			Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
				hash, err := solidity.Read(args, solidity.Bytes32, "proposalHash")
				if err != nil {
					return nil, err
				}
				value, err := solidity.Read(args, solidity.Uint256, "value")
				if err != nil {
					return nil, err
				}
				return propose(h, native.LookupCall(hash, common.HashLength), value)
			},
		},
	)
}
