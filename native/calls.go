package native

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a native dispatchable call value.
type Call interface {
	// Module returns the pallet the call belongs to.
	Module() string
	// Function returns the name of the call within its pallet.
	Function() string
}

// FaucetRequestFunds transfers Amount from the faucet account to Who.
type FaucetRequestFunds struct {
	Who    AccountID
	Amount Balance
}

func (FaucetRequestFunds) Module() string   { return "Faucet" }
func (FaucetRequestFunds) Function() string { return "request_funds" }

// RewardDestinationKind enumerates where staking rewards are paid.
type RewardDestinationKind uint8

const (
	RewardStaked RewardDestinationKind = iota
	RewardStash
	RewardAccount
	RewardNone

	// RewardDestinationKinds is the number of variants.
	RewardDestinationKinds = 4
)

func (k RewardDestinationKind) String() string {
	switch k {
	case RewardStaked:
		return "staked"
	case RewardStash:
		return "stash"
	case RewardAccount:
		return "account"
	case RewardNone:
		return "none"
	}
	return "unknown"
}

// RewardDestination is a reward payout target. Account is only meaningful
// for RewardAccount.
type RewardDestination struct {
	Kind    RewardDestinationKind
	Account AccountID
}

// StakingBond locks Value of the signer's balance for staking.
type StakingBond struct {
	Value Balance
	Payee RewardDestination
}

func (StakingBond) Module() string   { return "Staking" }
func (StakingBond) Function() string { return "bond" }

// StakingUnbond schedules Value of the bonded balance for release.
type StakingUnbond struct {
	Value Balance
}

func (StakingUnbond) Module() string   { return "Staking" }
func (StakingUnbond) Function() string { return "unbond" }

// StakingNominate declares the signer's nomination targets.
type StakingNominate struct {
	Targets []AccountID
}

func (StakingNominate) Module() string   { return "Staking" }
func (StakingNominate) Function() string { return "nominate" }

// StakingSetPayee changes the reward destination of the signer.
type StakingSetPayee struct {
	Payee RewardDestination
}

func (StakingSetPayee) Module() string   { return "Staking" }
func (StakingSetPayee) Function() string { return "set_payee" }

// StakingChill removes the signer from the active nominator set.
type StakingChill struct{}

func (StakingChill) Module() string   { return "Staking" }
func (StakingChill) Function() string { return "chill" }

// MaxInlineCallLen is the largest call that can be embedded in a proposal.
const MaxInlineCallLen = 128

var ErrInlineCallTooLong = errors.New("inline call exceeds 128 bytes")

// BoundedCall is a proposal call, either inlined or referenced by the hash
// of a noted preimage.
type BoundedCall struct {
	Inline []byte
	Hash   common.Hash
	Len    uint32
}

// InlineCall bounds an encoded call for inline storage.
func InlineCall(call []byte) (BoundedCall, error) {
	if len(call) > MaxInlineCallLen {
		return BoundedCall{}, ErrInlineCallTooLong
	}
	if call == nil {
		call = []byte{}
	}
	return BoundedCall{Inline: call, Len: uint32(len(call))}, nil
}

// LookupCall references a call by preimage hash.
func LookupCall(hash common.Hash, length uint32) BoundedCall {
	return BoundedCall{Hash: hash, Len: length}
}

// IsInline reports whether the call is stored inline.
func (c BoundedCall) IsInline() bool {
	return c.Inline != nil
}

// DemocracyPropose submits a public proposal backed by a Value deposit.
type DemocracyPropose struct {
	Proposal BoundedCall
	Value    Balance
}

func (DemocracyPropose) Module() string   { return "Democracy" }
func (DemocracyPropose) Function() string { return "propose" }

// TreasuryProposeSpend proposes paying Value from the treasury to Beneficiary.
type TreasuryProposeSpend struct {
	Value       Balance
	Beneficiary AccountID
}

func (TreasuryProposeSpend) Module() string   { return "Treasury" }
func (TreasuryProposeSpend) Function() string { return "propose_spend" }

// PreimageNote stores Bytes on chain under its hash.
type PreimageNote struct {
	Bytes []byte
}

func (PreimageNote) Module() string   { return "Preimage" }
func (PreimageNote) Function() string { return "note_preimage" }

// PreimageUnnote removes a preimage previously noted by the signer.
type PreimageUnnote struct {
	Hash common.Hash
}

func (PreimageUnnote) Module() string   { return "Preimage" }
func (PreimageUnnote) Function() string { return "unnote_preimage" }
