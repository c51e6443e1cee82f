// Package memory is an in-memory native runtime. It implements the faucet,
// staking, democracy, treasury and preimage calls the precompiles dispatch,
// enough to run and test them without a chain.
//
// Every call validates all of its preconditions before touching state, so a
// failed dispatch never leaves partial changes behind.
package memory

import (
	"fmt"
	"sync"

	"github.com/atleta-network/atleta/native"
	"github.com/atleta-network/atleta/precompile"
	"github.com/atleta-network/atleta/tracing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

type account struct {
	free     native.Balance
	reserved native.Balance
}

// Event is emitted by a successful dispatch.
type Event struct {
	Block  uint64
	Module string
	Name   string
	Who    native.AccountID
	Amount native.Balance
	Index  uint32      // proposal index, if any
	Hash   common.Hash // preimage hash, if any
}

func (e Event) String() string {
	return fmt.Sprintf("%s::%s(who=%s, amount=%s)", e.Module, e.Name, e.Who, e.Amount)
}

// Runtime is a native runtime holding its state in memory. It is safe for
// concurrent use; calls are executed one at a time.
type Runtime struct {
	precompile.IdentityMapping
	precompile.Balance128
	precompile.SignedOrigins

	cfg   Config
	hooks *tracing.Hooks

	mu        sync.Mutex
	block     uint64
	accounts  map[native.AccountID]*account
	requests  map[native.AccountID]faucetRequest
	ledgers   map[native.AccountID]*Ledger
	activeEra *uint32
	proposals []Proposal
	spends    []SpendProposal
	preimages map[common.Hash]*Preimage
	events    []Event
	changes   []balanceChange // hook calls pending until unlock
}

type balanceChange struct {
	who        native.AccountID
	prev, next native.Balance
	reason     tracing.BalanceChangeReason
}

// New creates an empty runtime at block zero. hooks may be nil.
func New(cfg Config, hooks *tracing.Hooks) *Runtime {
	return &Runtime{
		cfg:       cfg,
		hooks:     hooks,
		accounts:  make(map[native.AccountID]*account),
		requests:  make(map[native.AccountID]faucetRequest),
		ledgers:   make(map[native.AccountID]*Ledger),
		preimages: make(map[common.Hash]*Preimage),
	}
}

// Config returns the runtime constants.
func (rt *Runtime) Config() Config { return rt.cfg }

// Endow credits amount to who, registering the account if needed.
func (rt *Runtime) Endow(who native.AccountID, amount native.Balance) error {
	rt.mu.Lock()
	defer rt.unlock()

	acc := rt.account(who)
	free, err := acc.free.Add(amount)
	if err != nil {
		return err
	}
	rt.setFree(who, acc, free, tracing.BalanceChangeGenesis)
	return nil
}

// AdvanceBlocks moves the chain n blocks forward.
func (rt *Runtime) AdvanceBlocks(n uint64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.block += n
}

// BlockNumber returns the current block.
func (rt *Runtime) BlockNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.block
}

// StartEra makes index the active era.
func (rt *Runtime) StartEra(index uint32) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.activeEra = &index
	log.Debug("Started era", "index", index, "block", rt.block)
}

// ActiveEra returns the active era, if any era has started.
func (rt *Runtime) ActiveEra() (uint32, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.activeEra == nil {
		return 0, false
	}
	return *rt.activeEra, true
}

// FreeBalance returns the spendable balance of who.
func (rt *Runtime) FreeBalance(who native.AccountID) native.Balance {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if acc, ok := rt.accounts[who]; ok {
		return acc.free
	}
	return native.Balance{}
}

// ReservedBalance returns the balance of who held by deposits and bonds.
func (rt *Runtime) ReservedBalance(who native.AccountID) native.Balance {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if acc, ok := rt.accounts[who]; ok {
		return acc.reserved
	}
	return native.Balance{}
}

// Lookup resolves who to a registered account. Accounts are registered by
// receiving funds.
func (rt *Runtime) Lookup(who native.AccountID) (native.AccountID, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, ok := rt.accounts[who]; !ok {
		return native.AccountID{}, native.ErrCannotLookup
	}
	return who, nil
}

// Events returns the events emitted so far.
func (rt *Runtime) Events() []Event {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]Event(nil), rt.events...)
}

// EpochDuration implements babe.Config.
func (rt *Runtime) EpochDuration() uint64 { return rt.cfg.EpochDuration }

// ExpectedBlockTime implements babe.Config.
func (rt *Runtime) ExpectedBlockTime() uint64 { return rt.cfg.ExpectedBlockTime }

// WeightToGas converts ref time to gas, rounding up. Proof size is not
// charged separately.
func (rt *Runtime) WeightToGas(w native.Weight) uint64 {
	if rt.cfg.WeightPerGas == 0 {
		return w.RefTime
	}
	gas := w.RefTime / rt.cfg.WeightPerGas
	if w.RefTime%rt.cfg.WeightPerGas != 0 {
		gas++
	}
	return gas
}

// DBReadGas returns the gas charged for one direct storage read.
func (rt *Runtime) DBReadGas() uint64 {
	return rt.WeightToGas(rt.cfg.DBReadWeight)
}

// GetDispatchInfo returns the declared weight of call.
func (rt *Runtime) GetDispatchInfo(call native.Call) native.DispatchInfo {
	return native.DispatchInfo{Weight: declaredWeight(call, rt.cfg)}
}

// Dispatch executes call with the given origin.
func (rt *Runtime) Dispatch(origin native.Origin, call native.Call) (native.PostInfo, error) {
	rt.mu.Lock()
	defer rt.unlock()

	signer, err := origin.EnsureSigned()
	if err != nil {
		return native.PostInfo{}, err
	}
	var post native.PostInfo
	switch c := call.(type) {
	case native.FaucetRequestFunds:
		err = rt.requestFunds(c)
	case native.StakingBond:
		err = rt.bond(signer, c)
	case native.StakingUnbond:
		err = rt.unbond(signer, c)
	case native.StakingNominate:
		post, err = rt.nominate(signer, c)
	case native.StakingSetPayee:
		err = rt.setPayee(signer, c)
	case native.StakingChill:
		err = rt.chill(signer)
	case native.DemocracyPropose:
		err = rt.propose(signer, c)
	case native.TreasuryProposeSpend:
		err = rt.proposeSpend(signer, c)
	case native.PreimageNote:
		err = rt.notePreimage(signer, c)
	case native.PreimageUnnote:
		err = rt.unnotePreimage(signer, c)
	default:
		err = native.ErrCallFiltered
	}
	if err != nil {
		log.Debug("Native call failed", "call", call.Module()+"."+call.Function(), "signer", signer, "err", err)
		return native.PostInfo{}, err
	}
	return post, nil
}

// account returns the account of who, creating it. Callers must hold mu.
func (rt *Runtime) account(who native.AccountID) *account {
	acc, ok := rt.accounts[who]
	if !ok {
		acc = new(account)
		rt.accounts[who] = acc
	}
	return acc
}

func (rt *Runtime) setFree(who native.AccountID, acc *account, free native.Balance, reason tracing.BalanceChangeReason) {
	prev := acc.free
	acc.free = free
	if rt.hooks != nil && rt.hooks.OnBalanceChange != nil {
		rt.changes = append(rt.changes, balanceChange{who, prev, free, reason})
	}
}

// unlock releases mu, then reports the balance changes made while it was
// held.
func (rt *Runtime) unlock() {
	changes := rt.changes
	rt.changes = nil
	rt.mu.Unlock()
	for _, c := range changes {
		rt.hooks.OnBalanceChange(c.who, c.prev, c.next, c.reason)
	}
}

// canReserve checks that who can move amount from free to reserved.
func (rt *Runtime) canReserve(who native.AccountID, amount native.Balance) error {
	acc, ok := rt.accounts[who]
	if !ok || acc.free.Cmp(amount) < 0 {
		return native.ErrInsufficientBalance
	}
	if _, err := acc.reserved.Add(amount); err != nil {
		return err
	}
	return nil
}

// reserve moves amount from free to reserved. canReserve must have passed.
func (rt *Runtime) reserve(who native.AccountID, amount native.Balance, reason tracing.BalanceChangeReason) {
	acc := rt.accounts[who]
	free, _ := acc.free.Sub(amount)
	acc.reserved, _ = acc.reserved.Add(amount)
	rt.setFree(who, acc, free, reason)
}

// unreserve moves up to amount from reserved back to free.
func (rt *Runtime) unreserve(who native.AccountID, amount native.Balance, reason tracing.BalanceChangeReason) {
	acc := rt.account(who)
	if acc.reserved.Cmp(amount) < 0 {
		amount = acc.reserved
	}
	acc.reserved, _ = acc.reserved.Sub(amount)
	free, err := acc.free.Add(amount)
	if err != nil {
		log.Error("Free balance overflow on unreserve", "who", who, "amount", amount)
		return
	}
	rt.setFree(who, acc, free, reason)
}

func (rt *Runtime) emit(e Event) {
	e.Block = rt.block
	rt.events = append(rt.events, e)
	log.Trace("Native event", "event", e)
}
