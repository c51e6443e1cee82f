// Package tracing lets observers follow balance movements made by native
// dispatchables.
package tracing

import "github.com/atleta-network/atleta/native"

// BalanceChangeReason is a description of the reason why a balance was changed.
type BalanceChangeReason int

const (
	BalanceChangeUnspecified BalanceChangeReason = iota
	BalanceChangeGenesis
	BalanceChangeFaucet
	BalanceChangeStakingBond
	BalanceChangeProposalDeposit
	BalanceChangeSpendBond
	BalanceChangePreimageDeposit
	BalanceChangePreimageRefund
)

// String returns a human-readable string for the reason.
func (r BalanceChangeReason) String() string {
	switch r {
	case BalanceChangeUnspecified:
		return "unspecified"
	case BalanceChangeGenesis:
		return "genesis"
	case BalanceChangeFaucet:
		return "faucet"
	case BalanceChangeStakingBond:
		return "staking_bond"
	case BalanceChangeProposalDeposit:
		return "proposal_deposit"
	case BalanceChangeSpendBond:
		return "spend_bond"
	case BalanceChangePreimageDeposit:
		return "preimage_deposit"
	case BalanceChangePreimageRefund:
		return "preimage_refund"
	}
	return "unknown"
}

// BalanceChangeHook is called when the free balance of an account changes.
type BalanceChangeHook func(who native.AccountID, prev, next native.Balance, reason BalanceChangeReason)

// Hooks are the callbacks a runtime invokes while dispatching. Nil hooks
// are skipped. Hooks run once the runtime has released its lock, after the
// call that caused them has completed, so they may read the runtime.
type Hooks struct {
	OnBalanceChange BalanceChangeHook
}
