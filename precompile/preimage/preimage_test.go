package preimage

import (
	"testing"

	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/native/memory"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var author = common.HexToAddress("0x1000000000000000000000000000000000000001")

func TestNoteAndUnnote(t *testing.T) {
	rt := memory.New(memory.DefaultConfig, nil)
	who := native.AccountIDFromAddress(author)
	funds := native.MustBalance("10000000000000000000")
	require.NoError(t, rt.Endow(who, funds))
	p := New(rt)

	data := []byte{0x05, 0x00, 0x04, 0x2a}
	sel := solidity.Selector("notePreimage(uint8[])")
	note := append(sel[:], solidity.Encode(solidity.Array(solidity.Uint8), data)...)

	out := p.Execute(precompile.NewCallHandle(author, Address, note, nil, 1_000_000, false))
	require.Equal(t, precompile.StatusSucceeded, out.Status, out.Reason)

	hash := crypto.Keccak256Hash(data)
	stored, ok := rt.Preimage(hash)
	require.True(t, ok)
	require.Equal(t, data, stored.Bytes)
	require.Equal(t, stored.Deposit, rt.ReservedBalance(who))

	out = p.Execute(precompile.NewCallHandle(author, Address, note, nil, 1_000_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, "Dispatched call failed with error: Preimage::AlreadyNoted", out.Reason)

	sel = solidity.Selector("unnotePreimage(bytes32)")
	unnote := append(sel[:], solidity.Encode(solidity.Bytes32, hash)...)
	out = p.Execute(precompile.NewCallHandle(author, Address, unnote, nil, 1_000_000, false))
	require.Equal(t, precompile.StatusSucceeded, out.Status, out.Reason)

	_, ok = rt.Preimage(hash)
	require.False(t, ok)
	require.Equal(t, funds, rt.FreeBalance(who))
}

func TestNoteMalformedArray(t *testing.T) {
	p := New(memory.New(memory.DefaultConfig, nil))

	sel := solidity.Selector("notePreimage(uint8[])")
	data := solidity.Encode(solidity.Array(solidity.Uint8), []uint8{1})
	data[len(data)-2] = 0x01 // element no longer fits a uint8
	out := p.Execute(precompile.NewCallHandle(author, Address, append(sel[:], data...), nil, 1_000_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, precompile.RevertDecode, out.Revert)
	require.Equal(t, "bytes.0: Value is too large for uint8", out.Reason)
}
