package precompile

import (
	"fmt"

	"github.com/atleta-network/atleta/native"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// AddressMapping maps EVM addresses to native accounts.
type AddressMapping interface {
	IntoAccountID(addr common.Address) native.AccountID
}

// BalanceConversion narrows EVM values to native balances.
type BalanceConversion interface {
	IntoBalance(v *uint256.Int) (native.Balance, bool)
}

// OriginConstruction builds the dispatch origin for a native account.
type OriginConstruction interface {
	IntoOrigin(who native.AccountID) native.Origin
}

// CallSubmission weighs and dispatches native calls.
type CallSubmission interface {
	GetDispatchInfo(call native.Call) native.DispatchInfo
	Dispatch(origin native.Origin, call native.Call) (native.PostInfo, error)
}

// GasSchedule converts native costs into EVM gas.
type GasSchedule interface {
	WeightToGas(w native.Weight) uint64
	// DBReadGas is the fixed cost of one direct storage read.
	DBReadGas() uint64
}

// Runtime is the capability set a target runtime provides to precompiles.
type Runtime interface {
	AddressMapping
	BalanceConversion
	OriginConstruction
	CallSubmission
	GasSchedule
}

// AccountLookup resolves an account to a registered on-chain account.
type AccountLookup interface {
	Lookup(who native.AccountID) (native.AccountID, error)
}

// IdentityMapping maps an address to the account holding it zero padded.
type IdentityMapping struct{}

func (IdentityMapping) IntoAccountID(addr common.Address) native.AccountID {
	return native.AccountIDFromAddress(addr)
}

// Balance128 converts to 128-bit native balances.
type Balance128 struct{}

func (Balance128) IntoBalance(v *uint256.Int) (native.Balance, bool) {
	return native.BalanceFromU256(v)
}

// SignedOrigins dispatches calls as signed by the mapped account.
type SignedOrigins struct{}

func (SignedOrigins) IntoOrigin(who native.AccountID) native.Origin {
	return native.SignedOrigin(who)
}

// CallerOrigin returns the dispatch origin of the EVM caller.
func CallerOrigin(h Handle, rt Runtime) native.Origin {
	return rt.IntoOrigin(rt.IntoAccountID(h.Caller()))
}

// ToBalance narrows v to a native balance, reverting if it does not fit.
func ToBalance(rt BalanceConversion, v uint256.Int, what string) (native.Balance, error) {
	b, ok := rt.IntoBalance(&v)
	if !ok {
		return native.Balance{}, ValueTooLarge(what)
	}
	return b, nil
}

// LookupAddress resolves addr to a registered native account.
func LookupAddress(rt AddressMapping, l AccountLookup, addr common.Address) (native.AccountID, error) {
	who, err := l.Lookup(rt.IntoAccountID(addr))
	if err != nil {
		return native.AccountID{}, &RevertError{Kind: RevertLookup, Reason: "Unable to lookup address"}
	}
	return who, nil
}

// RecordDBRead charges the fixed cost of one direct storage read. Views must
// call it for every read as the metering cannot observe them.
func RecordDBRead(h Handle, g GasSchedule) error {
	return h.RecordCost(g.DBReadGas())
}

// TryDispatch charges the declared weight of call, dispatches it with
// origin and refunds any weight the call reports as unused. A failed
// dispatch becomes a revert carrying the native error.
func TryDispatch(h Handle, rt Runtime, origin native.Origin, call native.Call) (native.PostInfo, error) {
	info := rt.GetDispatchInfo(call)
	cost := rt.WeightToGas(info.Weight)
	if err := h.RecordCost(cost); err != nil {
		return native.PostInfo{}, err
	}
	post, err := dispatch(rt, origin, call)
	if err != nil {
		log.Debug("Precompile dispatch failed", "call", call.Module()+"."+call.Function(), "err", err)
		return native.PostInfo{}, &RevertError{
			Kind:   RevertDispatch,
			Reason: "Dispatched call failed with error: " + err.Error(),
		}
	}
	if post.ActualWeight != nil {
		if actual := rt.WeightToGas(*post.ActualWeight); actual < cost {
			h.RefundCost(cost - actual)
		}
	}
	return post, nil
}

// dispatch runs the call, turning a panic in the runtime into an error.
func dispatch(rt CallSubmission, origin native.Origin, call native.Call) (post native.PostInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch panicked: %v", r)
		}
	}()
	return rt.Dispatch(origin, call)
}
