package memory

import (
	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/tracing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	ErrAmountTooHigh        = native.ModuleError("Faucet", "AmountTooHigh")
	ErrRequestLimitExceeded = native.ModuleError("Faucet", "RequestLimitExceeded")
	ErrNoFaucetAccount      = native.ModuleError("Faucet", "NoFaucetAccount")

	ErrAlreadyBonded    = native.ModuleError("Staking", "AlreadyBonded")
	ErrInsufficientBond = native.ModuleError("Staking", "InsufficientBond")
	ErrNotController    = native.ModuleError("Staking", "NotController")
	ErrEmptyTargets     = native.ModuleError("Staking", "EmptyTargets")
	ErrTooManyTargets   = native.ModuleError("Staking", "TooManyTargets")

	ErrValueLow             = native.ModuleError("Democracy", "ValueLow")
	ErrTooManyProposals     = native.ModuleError("Democracy", "TooMany")
	ErrInsufficientProposer = native.ModuleError("Treasury", "InsufficientProposersBalance")

	ErrAlreadyNoted  = native.ModuleError("Preimage", "AlreadyNoted")
	ErrNotNoted      = native.ModuleError("Preimage", "NotNoted")
	ErrNotAuthorized = native.ModuleError("Preimage", "NotAuthorized")
	ErrTooBig        = native.ModuleError("Preimage", "TooBig")
)

type faucetRequest struct {
	total native.Balance
	since uint64
}

func (rt *Runtime) requestFunds(c native.FaucetRequestFunds) error {
	if c.Amount.Cmp(rt.cfg.FaucetAmount) > 0 {
		return ErrAmountTooHigh
	}
	req := rt.requests[c.Who]
	next := faucetRequest{total: c.Amount, since: rt.block}
	if rt.block-req.since < rt.cfg.AccumulationPeriod {
		total, err := req.total.Add(c.Amount)
		if err != nil {
			return err
		}
		next = faucetRequest{total: total, since: req.since}
	}
	if next.total.Cmp(rt.cfg.FaucetAmount) > 0 {
		return ErrRequestLimitExceeded
	}
	if rt.cfg.FaucetAccount == nil {
		return ErrNoFaucetAccount
	}
	if err := rt.transfer(*rt.cfg.FaucetAccount, c.Who, c.Amount, tracing.BalanceChangeFaucet); err != nil {
		return err
	}
	rt.requests[c.Who] = next
	rt.emit(Event{Module: "Faucet", Name: "FundsSent", Who: c.Who, Amount: c.Amount})
	return nil
}

// FaucetRequested returns what who requested in the current window and the
// block the window opened.
func (rt *Runtime) FaucetRequested(who native.AccountID) (native.Balance, uint64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	req := rt.requests[who]
	return req.total, req.since
}

func (rt *Runtime) transfer(from, to native.AccountID, amount native.Balance, reason tracing.BalanceChangeReason) error {
	src, ok := rt.accounts[from]
	if !ok || src.free.Cmp(amount) < 0 {
		return native.ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	var credited native.Balance
	if dst, ok := rt.accounts[to]; ok {
		credited = dst.free
	}
	credited, err := credited.Add(amount)
	if err != nil {
		return err
	}
	debited, _ := src.free.Sub(amount)
	rt.setFree(from, src, debited, reason)
	rt.setFree(to, rt.account(to), credited, reason)
	return nil
}

// Ledger is the staking state of a bonded account.
type Ledger struct {
	Active    native.Balance
	Unlocking native.Balance
	Payee     native.RewardDestination
	Targets   []native.AccountID
}

// Ledger returns a copy of the staking ledger of who.
func (rt *Runtime) Ledger(who native.AccountID) (Ledger, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	l, ok := rt.ledgers[who]
	if !ok {
		return Ledger{}, false
	}
	cpy := *l
	cpy.Targets = append([]native.AccountID(nil), l.Targets...)
	return cpy, true
}

func (rt *Runtime) bond(who native.AccountID, c native.StakingBond) error {
	if _, ok := rt.ledgers[who]; ok {
		return ErrAlreadyBonded
	}
	if c.Value.Cmp(rt.cfg.MinBond) < 0 || c.Value.IsZero() {
		return ErrInsufficientBond
	}
	if err := rt.canReserve(who, c.Value); err != nil {
		return err
	}
	rt.reserve(who, c.Value, tracing.BalanceChangeStakingBond)
	rt.ledgers[who] = &Ledger{Active: c.Value, Payee: c.Payee}
	rt.emit(Event{Module: "Staking", Name: "Bonded", Who: who, Amount: c.Value})
	return nil
}

func (rt *Runtime) unbond(who native.AccountID, c native.StakingUnbond) error {
	l, ok := rt.ledgers[who]
	if !ok {
		return ErrNotController
	}
	value := c.Value
	if value.Cmp(l.Active) > 0 {
		value = l.Active
	}
	unlocking, err := l.Unlocking.Add(value)
	if err != nil {
		return err
	}
	l.Active, _ = l.Active.Sub(value)
	l.Unlocking = unlocking
	rt.emit(Event{Module: "Staking", Name: "Unbonded", Who: who, Amount: value})
	return nil
}

func (rt *Runtime) nominate(who native.AccountID, c native.StakingNominate) (native.PostInfo, error) {
	l, ok := rt.ledgers[who]
	if !ok {
		return native.PostInfo{}, ErrNotController
	}
	if len(c.Targets) == 0 {
		return native.PostInfo{}, ErrEmptyTargets
	}
	if len(c.Targets) > rt.cfg.MaxNominations {
		return native.PostInfo{}, ErrTooManyTargets
	}
	seen := make(map[native.AccountID]struct{}, len(c.Targets))
	targets := make([]native.AccountID, 0, len(c.Targets))
	for _, t := range c.Targets {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	l.Targets = targets
	rt.emit(Event{Module: "Staking", Name: "Nominated", Who: who})
	actual := nominateWeight(len(targets))
	return native.PostInfo{ActualWeight: &actual}, nil
}

func (rt *Runtime) setPayee(who native.AccountID, c native.StakingSetPayee) error {
	l, ok := rt.ledgers[who]
	if !ok {
		return ErrNotController
	}
	l.Payee = c.Payee
	rt.emit(Event{Module: "Staking", Name: "PayeeSet", Who: who})
	return nil
}

func (rt *Runtime) chill(who native.AccountID) error {
	l, ok := rt.ledgers[who]
	if !ok {
		return ErrNotController
	}
	l.Targets = nil
	rt.emit(Event{Module: "Staking", Name: "Chilled", Who: who})
	return nil
}

// Proposal is a public democracy proposal.
type Proposal struct {
	Index    uint32
	Proposer native.AccountID
	Call     native.BoundedCall
	Deposit  native.Balance
}

// Proposals returns the public proposals in submission order.
func (rt *Runtime) Proposals() []Proposal {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]Proposal(nil), rt.proposals...)
}

func (rt *Runtime) propose(who native.AccountID, c native.DemocracyPropose) error {
	if c.Value.Cmp(rt.cfg.MinProposalDeposit) < 0 {
		return ErrValueLow
	}
	if len(rt.proposals) >= rt.cfg.MaxProposals {
		return ErrTooManyProposals
	}
	if err := rt.canReserve(who, c.Value); err != nil {
		return err
	}
	rt.reserve(who, c.Value, tracing.BalanceChangeProposalDeposit)
	p := Proposal{Index: uint32(len(rt.proposals)), Proposer: who, Call: c.Proposal, Deposit: c.Value}
	rt.proposals = append(rt.proposals, p)
	rt.emit(Event{Module: "Democracy", Name: "Proposed", Who: who, Amount: c.Value, Index: p.Index})
	return nil
}

// SpendProposal is a treasury spend awaiting approval.
type SpendProposal struct {
	Index       uint32
	Proposer    native.AccountID
	Value       native.Balance
	Beneficiary native.AccountID
	Bond        native.Balance
}

// SpendProposals returns the treasury proposals in submission order.
func (rt *Runtime) SpendProposals() []SpendProposal {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]SpendProposal(nil), rt.spends...)
}

// spendBond is the deposit reserved for proposing value.
func (rt *Runtime) spendBond(value native.Balance) native.Balance {
	bond := new(uint256.Int).Mul(value.U256(), uint256.NewInt(rt.cfg.SpendBondPermill))
	bond.Div(bond, uint256.NewInt(1_000_000))
	b, _ := native.BalanceFromU256(bond)
	if b.Cmp(rt.cfg.SpendBondMinimum) < 0 {
		return rt.cfg.SpendBondMinimum
	}
	return b
}

func (rt *Runtime) proposeSpend(who native.AccountID, c native.TreasuryProposeSpend) error {
	bond := rt.spendBond(c.Value)
	if err := rt.canReserve(who, bond); err != nil {
		return ErrInsufficientProposer
	}
	rt.reserve(who, bond, tracing.BalanceChangeSpendBond)
	p := SpendProposal{
		Index:       uint32(len(rt.spends)),
		Proposer:    who,
		Value:       c.Value,
		Beneficiary: c.Beneficiary,
		Bond:        bond,
	}
	rt.spends = append(rt.spends, p)
	rt.emit(Event{Module: "Treasury", Name: "Proposed", Who: who, Amount: c.Value, Index: p.Index})
	return nil
}

// Preimage is a noted call preimage.
type Preimage struct {
	Bytes     []byte
	Depositor native.AccountID
	Deposit   native.Balance
}

// Preimage returns the preimage noted under hash.
func (rt *Runtime) Preimage(hash common.Hash) (Preimage, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	p, ok := rt.preimages[hash]
	if !ok {
		return Preimage{}, false
	}
	return *p, true
}

func (rt *Runtime) preimageDeposit(size int) (native.Balance, error) {
	perByte := new(uint256.Int).Mul(rt.cfg.PreimageByteDeposit.U256(), uint256.NewInt(uint64(size)))
	deposit, ok := native.BalanceFromU256(perByte)
	if !ok {
		return native.Balance{}, native.ErrArithmetic
	}
	return deposit.Add(rt.cfg.PreimageBaseDeposit)
}

func (rt *Runtime) notePreimage(who native.AccountID, c native.PreimageNote) error {
	if len(c.Bytes) > rt.cfg.MaxPreimageSize {
		return ErrTooBig
	}
	hash := crypto.Keccak256Hash(c.Bytes)
	if _, ok := rt.preimages[hash]; ok {
		return ErrAlreadyNoted
	}
	deposit, err := rt.preimageDeposit(len(c.Bytes))
	if err != nil {
		return err
	}
	if err := rt.canReserve(who, deposit); err != nil {
		return err
	}
	rt.reserve(who, deposit, tracing.BalanceChangePreimageDeposit)
	rt.preimages[hash] = &Preimage{
		Bytes:     append([]byte(nil), c.Bytes...),
		Depositor: who,
		Deposit:   deposit,
	}
	rt.emit(Event{Module: "Preimage", Name: "Noted", Who: who, Amount: deposit, Hash: hash})
	return nil
}

func (rt *Runtime) unnotePreimage(who native.AccountID, c native.PreimageUnnote) error {
	p, ok := rt.preimages[c.Hash]
	if !ok {
		return ErrNotNoted
	}
	if p.Depositor != who {
		return ErrNotAuthorized
	}
	delete(rt.preimages, c.Hash)
	rt.unreserve(who, p.Deposit, tracing.BalanceChangePreimageRefund)
	rt.emit(Event{Module: "Preimage", Name: "Cleared", Who: who, Amount: p.Deposit, Hash: c.Hash})
	return nil
}
