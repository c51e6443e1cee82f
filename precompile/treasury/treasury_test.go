package treasury

import (
	"testing"

	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/native/memory"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	proposer    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	beneficiary = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func proposeSpend(value *uint256.Int, to common.Address) []byte {
	sel := solidity.Selector("proposeSpend(uint256,address)")
	w := new(solidity.Writer)
	solidity.Uint256.Write(w, *value)
	solidity.Address.Write(w, to)
	return append(sel[:], w.Build()...)
}

func TestProposeSpend(t *testing.T) {
	rt := memory.New(memory.DefaultConfig, nil)
	require.NoError(t, rt.Endow(native.AccountIDFromAddress(proposer), native.MustBalance("100000000000000000000")))
	p := New(rt)

	value := uint256.MustFromDecimal("1000000000000000000")
	out := p.Execute(precompile.NewCallHandle(proposer, Address, proposeSpend(value, beneficiary), nil, 1_000_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, precompile.RevertLookup, out.Revert)
	require.Equal(t, "Unable to lookup address", out.Reason)
	require.Empty(t, rt.SpendProposals())

	require.NoError(t, rt.Endow(native.AccountIDFromAddress(beneficiary), native.NewBalance(1)))
	out = p.Execute(precompile.NewCallHandle(proposer, Address, proposeSpend(value, beneficiary), nil, 1_000_000, false))
	require.Equal(t, precompile.StatusSucceeded, out.Status, out.Reason)

	spends := rt.SpendProposals()
	require.Len(t, spends, 1)
	require.Equal(t, native.AccountIDFromAddress(beneficiary), spends[0].Beneficiary)
	require.Equal(t, native.AccountIDFromAddress(proposer), spends[0].Proposer)
	require.Equal(t, memory.DefaultConfig.SpendBondMinimum, spends[0].Bond)
}

func TestProposeSpendOverflow(t *testing.T) {
	rt := memory.New(memory.DefaultConfig, nil)
	p := New(rt)

	tooLarge := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	out := p.Execute(precompile.NewCallHandle(proposer, Address, proposeSpend(tooLarge, beneficiary), nil, 1_000_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, "Value is too large for amount type", out.Reason)
}
