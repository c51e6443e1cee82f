// Package babe exposes block production timing constants.
package babe

import (
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
)

// Address is where the babe precompile is served.
var Address = precompile.AddressAt(0x805)

// Config holds the slot timing of the chain. Both values are constants so
// reading them costs nothing.
type Config interface {
	// EpochDuration is the length of an epoch in slots.
	EpochDuration() uint64
	// ExpectedBlockTime is the target block time in milliseconds.
	ExpectedBlockTime() uint64
}

// New returns the babe precompile reading from cfg.
func New(cfg Config) *precompile.Precompile {
	constant := func(get func() uint64) func(precompile.Handle, *solidity.Reader) ([]byte, error) {
		return func(precompile.Handle, *solidity.Reader) ([]byte, error) {
			return solidity.Encode(solidity.Uint64, get()), nil
		}
	}
	return precompile.New("babe",
		precompile.Method{Signature: "epochDuration()", View: true, Run: constant(cfg.EpochDuration)},
		precompile.Method{Signature: "expectedBlockTime()", View: true, Run: constant(cfg.ExpectedBlockTime)},
	)
}
