package memory

import "github.com/atleta-network/atleta/native"

// Config holds the runtime constants of the development chain.
type Config struct {
	// FaucetAccount pays out faucet requests. Requests fail while unset.
	FaucetAccount *native.AccountID `toml:",omitempty"`
	// FaucetAmount caps what one account may request per AccumulationPeriod.
	FaucetAmount native.Balance
	// AccumulationPeriod is the faucet window in blocks.
	AccumulationPeriod uint64

	MinBond            native.Balance
	MaxNominations     int
	MinProposalDeposit native.Balance
	MaxProposals       int
	// SpendBondPermill is the share of a spend reserved from the proposer,
	// but at least SpendBondMinimum.
	SpendBondPermill    uint64
	SpendBondMinimum    native.Balance
	PreimageBaseDeposit native.Balance
	PreimageByteDeposit native.Balance
	MaxPreimageSize     int

	// EpochDuration is the length of a BABE epoch in slots.
	EpochDuration uint64
	// ExpectedBlockTime is the target block time in milliseconds.
	ExpectedBlockTime uint64

	// WeightPerGas is the ref time one unit of EVM gas buys.
	WeightPerGas uint64
	// DBReadWeight is the cost of one storage read.
	DBReadWeight native.Weight
}

// DefaultConfig mirrors the testnet runtime.
var DefaultConfig = Config{
	FaucetAmount:        native.MustBalance("1000000000000000000000"),
	AccumulationPeriod:  14400,
	MinBond:             native.MustBalance("1000000000000000000"),
	MaxNominations:      16,
	MinProposalDeposit:  native.MustBalance("100000000000000000000"),
	MaxProposals:        100,
	SpendBondPermill:    50_000,
	SpendBondMinimum:    native.MustBalance("1000000000000000000"),
	PreimageBaseDeposit: native.MustBalance("1000000000000000000"),
	PreimageByteDeposit: native.MustBalance("1000000000000000"),
	MaxPreimageSize:     4 << 20,
	EpochDuration:       600,
	ExpectedBlockTime:   6000,
	WeightPerGas:        20_000,
	DBReadWeight:        native.Weight{RefTime: 25_000_000},
}
