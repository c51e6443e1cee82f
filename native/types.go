// Package native defines the vocabulary of the native runtime that EVM
// precompiles dispatch into: account identities, balances, weights, origins
// and dispatchable calls.
package native

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// AccountIDLength is the size of a native account identity.
const AccountIDLength = 32

// AccountID is a native account identity. Accounts that are reachable from
// the EVM hold a 20 byte address right-aligned with zero padding.
type AccountID [AccountIDLength]byte

// AccountIDFromAddress maps an EVM address to its native account.
func AccountIDFromAddress(addr common.Address) AccountID {
	var id AccountID
	copy(id[AccountIDLength-common.AddressLength:], addr[:])
	return id
}

// Address returns the EVM address of the account. The boolean is false if
// the account is not representable as an address.
func (id AccountID) Address() (common.Address, bool) {
	for _, b := range id[:AccountIDLength-common.AddressLength] {
		if b != 0 {
			return common.Address{}, false
		}
	}
	return common.BytesToAddress(id[AccountIDLength-common.AddressLength:]), true
}

// String implements fmt.Stringer.
func (id AccountID) String() string {
	if addr, ok := id.Address(); ok {
		return addr.Hex()
	}
	return "0x" + hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts a hex
// encoded 20 byte address or 32 byte account.
func (id *AccountID) UnmarshalText(input []byte) error {
	raw, err := hexutil.Decode(string(input))
	if err != nil {
		return fmt.Errorf("invalid account %q: %w", input, err)
	}
	switch len(raw) {
	case common.AddressLength:
		*id = AccountIDFromAddress(common.BytesToAddress(raw))
	case AccountIDLength:
		copy(id[:], raw)
	default:
		return fmt.Errorf("invalid account %q: want %d or %d bytes, have %d", input, common.AddressLength, AccountIDLength, len(raw))
	}
	return nil
}

// BalanceBits is the width of a native balance.
const BalanceBits = 128

// Balance is a native 128-bit unsigned balance.
type Balance struct {
	hi, lo uint64
}

// NewBalance returns a balance holding v.
func NewBalance(v uint64) Balance {
	return Balance{lo: v}
}

// BalanceFromU256 narrows a 256-bit value to a balance. The boolean is false
// if the value does not fit.
func BalanceFromU256(v *uint256.Int) (Balance, bool) {
	if v[2] != 0 || v[3] != 0 {
		return Balance{}, false
	}
	return Balance{hi: v[1], lo: v[0]}, true
}

// MustBalance parses a decimal balance and panics on failure.
func MustBalance(dec string) Balance {
	b, ok := BalanceFromU256(uint256.MustFromDecimal(dec))
	if !ok {
		panic(fmt.Sprintf("balance %s exceeds %d bits", dec, BalanceBits))
	}
	return b
}

// U256 widens the balance.
func (b Balance) U256() *uint256.Int {
	return &uint256.Int{b.lo, b.hi, 0, 0}
}

// IsZero reports whether the balance is zero.
func (b Balance) IsZero() bool {
	return b.hi == 0 && b.lo == 0
}

// Cmp compares b and o and returns -1, 0 or +1.
func (b Balance) Cmp(o Balance) int {
	return b.U256().Cmp(o.U256())
}

// Add returns b+o, failing on 128-bit overflow.
func (b Balance) Add(o Balance) (Balance, error) {
	sum := new(uint256.Int).Add(b.U256(), o.U256())
	r, ok := BalanceFromU256(sum)
	if !ok {
		return Balance{}, ErrArithmetic
	}
	return r, nil
}

// Sub returns b-o, failing on underflow.
func (b Balance) Sub(o Balance) (Balance, error) {
	diff, underflow := new(uint256.Int).SubOverflow(b.U256(), o.U256())
	if underflow {
		return Balance{}, ErrArithmetic
	}
	r, _ := BalanceFromU256(diff)
	return r, nil
}

// String returns the decimal representation.
func (b Balance) String() string {
	return b.U256().Dec()
}

// MarshalText implements encoding.TextMarshaler.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts decimal
// and 0x-prefixed hexadecimal numbers.
func (b *Balance) UnmarshalText(input []byte) error {
	var v uint256.Int
	if err := v.UnmarshalText(input); err != nil {
		return fmt.Errorf("invalid balance %q: %w", input, err)
	}
	r, ok := BalanceFromU256(&v)
	if !ok {
		return fmt.Errorf("balance %s exceeds %d bits", input, BalanceBits)
	}
	*b = r
	return nil
}

// Weight is the two dimensional execution cost of a dispatchable.
type Weight struct {
	RefTime   uint64 // picoseconds of reference hardware time
	ProofSize uint64 // bytes of storage proof
}

// DispatchInfo describes a call before it is dispatched.
type DispatchInfo struct {
	Weight Weight
}

// PostInfo describes a call after a successful dispatch. A nil ActualWeight
// means the declared weight was consumed in full.
type PostInfo struct {
	ActualWeight *Weight
}

// OriginKind enumerates dispatch origins.
type OriginKind uint8

const (
	OriginNone OriginKind = iota
	OriginRoot
	OriginSigned
)

// Origin is the caller identity a call is dispatched with.
type Origin struct {
	Kind OriginKind
	Who  AccountID // set for OriginSigned
}

// SignedOrigin returns the origin of a call signed by who.
func SignedOrigin(who AccountID) Origin {
	return Origin{Kind: OriginSigned, Who: who}
}

// EnsureSigned returns the signer of a signed origin.
func (o Origin) EnsureSigned() (AccountID, error) {
	if o.Kind != OriginSigned {
		return AccountID{}, ErrBadOrigin
	}
	return o.Who, nil
}

// DispatchError is a failure reported by a native dispatchable.
type DispatchError struct {
	Module string // empty for errors raised outside of a pallet
	Name   string
}

func (e *DispatchError) Error() string {
	if e.Module == "" {
		return e.Name
	}
	return e.Module + "::" + e.Name
}

// ModuleError returns a dispatch error raised by the named pallet.
func ModuleError(module, name string) *DispatchError {
	return &DispatchError{Module: module, Name: name}
}

var (
	ErrBadOrigin           = &DispatchError{Name: "BadOrigin"}
	ErrCannotLookup        = &DispatchError{Name: "CannotLookup"}
	ErrCallFiltered        = &DispatchError{Name: "CallFiltered"}
	ErrArithmetic          = &DispatchError{Name: "Arithmetic"}
	ErrInsufficientBalance = ModuleError("Balances", "InsufficientBalance")
)
