package vm

import (
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/babe"
	"github.com/atleta-network/atleta/precompile/faucet"
	"github.com/atleta-network/atleta/precompile/generic"
	"github.com/atleta-network/atleta/precompile/governance"
	"github.com/atleta-network/atleta/precompile/preimage"
	"github.com/atleta-network/atleta/precompile/staking"
	"github.com/atleta-network/atleta/precompile/treasury"
	"github.com/ethereum/go-ethereum/common"
)

// Backend is the native runtime behind the default precompiles.
type Backend interface {
	staking.Runtime
	babe.Config
	generic.BalanceReader
}

// DefaultPrecompiles returns the precompile set of the chain, in address
// order.
func DefaultPrecompiles(b Backend) *precompile.Set {
	set := precompile.NewSet()
	for _, e := range []struct {
		addr common.Address
		p    *precompile.Precompile
	}{
		{staking.Address, staking.New(b)},
		{governance.Address, governance.New(b)},
		{treasury.Address, treasury.New(b)},
		{preimage.Address, preimage.New(b)},
		{faucet.Address, faucet.New(b)},
		{babe.Address, babe.New(b)},
		{generic.Address, generic.New(b)},
	} {
		if err := set.Register(e.addr, e.p); err != nil {
			panic(err)
		}
	}
	return set
}
