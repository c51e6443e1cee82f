package precompile

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AddressAt returns the reserved precompile address with the given index,
// i.e. the index as a big-endian 20 byte address.
func AddressAt(index uint64) common.Address {
	var addr common.Address
	for i := common.AddressLength - 1; i >= 0 && index > 0; i-- {
		addr[i] = byte(index)
		index >>= 8
	}
	return addr
}

// Set routes calls to the precompile registered at the called address.
type Set struct {
	byAddr map[common.Address]*Precompile
	addrs  []common.Address
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byAddr: make(map[common.Address]*Precompile)}
}

// Register serves p at addr.
func (s *Set) Register(addr common.Address, p *Precompile) error {
	if prev, ok := s.byAddr[addr]; ok {
		return fmt.Errorf("address %s already serves precompile %s", addr, prev.Name())
	}
	s.byAddr[addr] = p
	s.addrs = append(s.addrs, addr)
	return nil
}

// Get returns the precompile served at addr.
func (s *Set) Get(addr common.Address) (*Precompile, bool) {
	p, ok := s.byAddr[addr]
	return p, ok
}

// IsPrecompile reports whether addr is a reserved precompile address.
func (s *Set) IsPrecompile(addr common.Address) bool {
	_, ok := s.byAddr[addr]
	return ok
}

// Addresses returns the registered addresses in registration order.
func (s *Set) Addresses() []common.Address {
	return append([]common.Address(nil), s.addrs...)
}
