// Package staking exposes nominated proof-of-stake to EVM contracts.
//
// Reward destinations are passed as a (kind, account) pair where the
// account is only used by the Account kind.
package staking

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/ethereum/go-ethereum/common"
)

// Address is where the staking precompile is served.
var Address = precompile.AddressAt(0x800)

// Reader gives read access to staking storage.
type Reader interface {
	// ActiveEra returns the index of the active era. The boolean is false
	// before the first era starts.
	ActiveEra() (uint32, bool)
}

// Runtime is what the staking precompile needs from the native runtime.
type Runtime interface {
	precompile.Runtime
	precompile.AccountLookup
	Reader
}

var rewardKind = solidity.Enum[native.RewardDestinationKind]("RewardDestinationKind", native.RewardDestinationKinds)

type staking struct {
	rt Runtime
}

// New returns the staking precompile backed by rt.
func New(rt Runtime) *precompile.Precompile {
	s := &staking{rt: rt}
	return precompile.New("staking",
		precompile.Method{Signature: "activeEra()", View: true, Run: s.activeEra},
		precompile.Method{Signature: solidity.FunctionSignature("bond", solidity.Uint256, rewardKind, solidity.Address), Run: s.bond},
		precompile.Method{Signature: solidity.FunctionSignature("unbond", solidity.Uint256), Run: s.unbond},
		precompile.Method{Signature: solidity.FunctionSignature("nominate", solidity.Array(solidity.Address)), Run: s.nominate},
		precompile.Method{Signature: solidity.FunctionSignature("setPayee", rewardKind, solidity.Address), Run: s.setPayee},
		precompile.Method{Signature: "chill()", Run: s.chill},
	)
}

func (s *staking) activeEra(h precompile.Handle, _ *solidity.Reader) ([]byte, error) {
	if err := precompile.RecordDBRead(h, s.rt); err != nil {
		return nil, err
	}
	era, ok := s.rt.ActiveEra()
	if !ok {
		return nil, precompile.Failure("Unable to get active era")
	}
	return solidity.Encode(solidity.Uint32, era), nil
}

func (s *staking) bond(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
	value, err := solidity.Read(args, solidity.Uint256, "value")
	if err != nil {
		return nil, err
	}
	payee, err := s.readPayee(args)
	if err != nil {
		return nil, err
	}
	amount, err := precompile.ToBalance(s.rt, value, "amount type")
	if err != nil {
		return nil, err
	}
	return s.dispatch(h, native.StakingBond{Value: amount, Payee: payee})
}

func (s *staking) unbond(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
	value, err := solidity.Read(args, solidity.Uint256, "value")
	if err != nil {
		return nil, err
	}
	amount, err := precompile.ToBalance(s.rt, value, "amount type")
	if err != nil {
		return nil, err
	}
	return s.dispatch(h, native.StakingUnbond{Value: amount})
}

func (s *staking) nominate(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
	addrs, err := solidity.Read(args, solidity.Array(solidity.Address), "targets")
	if err != nil {
		return nil, err
	}
	targets := make([]native.AccountID, 0, len(addrs))
	for _, addr := range addrs {
		who, err := precompile.LookupAddress(s.rt, s.rt, addr)
		if err != nil {
			return nil, err
		}
		targets = append(targets, who)
	}
	return s.dispatch(h, native.StakingNominate{Targets: targets})
}

func (s *staking) setPayee(h precompile.Handle, args *solidity.Reader) ([]byte, error) {
	payee, err := s.readPayee(args)
	if err != nil {
		return nil, err
	}
	return s.dispatch(h, native.StakingSetPayee{Payee: payee})
}

func (s *staking) chill(h precompile.Handle, _ *solidity.Reader) ([]byte, error) {
	return s.dispatch(h, native.StakingChill{})
}

func (s *staking) readPayee(args *solidity.Reader) (native.RewardDestination, error) {
	kind, err := solidity.Read(args, rewardKind, "payee")
	if err != nil {
		return native.RewardDestination{}, err
	}
	account, err := solidity.Read(args, solidity.Address, "account")
	if err != nil {
		return native.RewardDestination{}, err
	}
	return rewardDestination(s.rt, kind, account), nil
}

func rewardDestination(rt precompile.AddressMapping, kind native.RewardDestinationKind, account common.Address) native.RewardDestination {
	dest := native.RewardDestination{Kind: kind}
	if kind == native.RewardAccount {
		dest.Account = rt.IntoAccountID(account)
	}
	return dest
}

func (s *staking) dispatch(h precompile.Handle, call native.Call) ([]byte, error) {
	_, err := precompile.TryDispatch(h, s.rt, precompile.CallerOrigin(h, s.rt), call)
	return nil, err
}
