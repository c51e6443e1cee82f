package faucet

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
	caller   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	receiver = common.HexToAddress("0xf24ff3a9cf04c71dbc94d0b566f7a27b94566cac")
	treasury = native.AccountID{0xfa}
)

// recorder captures the calls reaching the runtime.
type recorder struct {
	*memory.Runtime
	origins []native.Origin
	calls   []native.Call
}

func (r *recorder) Dispatch(origin native.Origin, call native.Call) (native.PostInfo, error) {
	r.origins = append(r.origins, origin)
	r.calls = append(r.calls, call)
	return r.Runtime.Dispatch(origin, call)
}

func newRecorder(t *testing.T) *recorder {
	cfg := memory.DefaultConfig
	cfg.FaucetAccount = &treasury
	rt := memory.New(cfg, nil)
	require.NoError(t, rt.Endow(treasury, native.MustBalance("1000000000000000000000000")))
	return &recorder{Runtime: rt}
}

func requestFunds(who common.Address, amount *uint256.Int) []byte {
	sel := solidity.Selector("requestFunds(address,uint256)")
	w := new(solidity.Writer)
	solidity.Address.Write(w, who)
	solidity.Uint256.Write(w, *amount)
	return append(sel[:], w.Build()...)
}

func TestRequestFunds(t *testing.T) {
	rt := newRecorder(t)
	p := New(rt)

	out := p.Execute(precompile.NewCallHandle(caller, Address, requestFunds(receiver, uint256.NewInt(100)), nil, 100_000, false))
	require.Equal(t, precompile.StatusSucceeded, out.Status, out.Reason)

	require.Len(t, rt.calls, 1)
	call, ok := rt.calls[0].(native.FaucetRequestFunds)
	require.True(t, ok)
	require.Equal(t, native.NewBalance(100), call.Amount)
	addr, ok := call.Who.Address()
	require.True(t, ok)
	require.Equal(t, receiver, addr)
	require.Equal(t, native.SignedOrigin(native.AccountIDFromAddress(caller)), rt.origins[0])

	require.Equal(t, native.NewBalance(100), rt.FreeBalance(call.Who))
	require.Equal(t, rt.WeightToGas(rt.GetDispatchInfo(call).Weight), out.GasUsed)
}

func TestRequestFundsOverflow(t *testing.T) {
	rt := newRecorder(t)
	p := New(rt)

	amount := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	out := p.Execute(precompile.NewCallHandle(caller, Address, requestFunds(receiver, amount), nil, 100_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, precompile.RevertOverflow, out.Revert)
	require.Equal(t, "Value is too large for amount type", out.Reason)
	require.Empty(t, rt.calls)
}

func TestRequestFundsAboveCap(t *testing.T) {
	rt := newRecorder(t)
	p := New(rt)

	over, _ := new(uint256.Int).AddOverflow(memory.DefaultConfig.FaucetAmount.U256(), uint256.NewInt(1))
	out := p.Execute(precompile.NewCallHandle(caller, Address, requestFunds(receiver, over), nil, 100_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, precompile.RevertDispatch, out.Revert)
	require.Equal(t, "Dispatched call failed with error: Faucet::AmountTooHigh", out.Reason)

	reason, ok := solidity.DecodeRevert(out.Output)
	require.True(t, ok)
	require.Equal(t, out.Reason, reason)
}

func TestRequestFundsMalformed(t *testing.T) {
	p := New(newRecorder(t))

	input := requestFunds(receiver, uint256.NewInt(1))
	input[4] = 1 // dirty address padding
	out := p.Execute(precompile.NewCallHandle(caller, Address, input, nil, 100_000, false))
	require.Equal(t, precompile.StatusReverted, out.Status)
	require.Equal(t, precompile.RevertDecode, out.Revert)
	require.Equal(t, "who: Address has non-zero padding", out.Reason)
}
