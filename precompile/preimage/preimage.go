// Package preimage lets EVM accounts note call preimages for governance.
package preimage

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
)

// Address is where the preimage precompile is served.
var Address = precompile.AddressAt(0x803)

// New returns the preimage precompile dispatching into rt.
func New(rt precompile.Runtime) *precompile.Precompile {
	dispatch := func(h precompile.Handle, call native.Call) ([]byte, error) {
		_, err := precompile.TryDispatch(h, rt, precompile.CallerOrigin(h, rt), call)
		return nil, err
	}
	return precompile.New("preimage",
		precompile.Method{
			Signature: solidity.FunctionSignature("notePreimage", solidity.Array(solidity.Uint8)),
			Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
				bytes, err := solidity.Read(args, solidity.Array(solidity.Uint8), "bytes")
				if err != nil {
					return nil, err
				}
				return dispatch(h, native.PreimageNote{Bytes: bytes})
			},
		},
		precompile.Method{
			Signature: solidity.FunctionSignature("unnotePreimage", solidity.Bytes32),
			Run: func(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
				hash, err := solidity.Read(args, solidity.Bytes32, "hash")
				if err != nil {
					return nil, err
				}
				return dispatch(h, native.PreimageUnnote{Hash: hash})
			},
		},
	)
}
