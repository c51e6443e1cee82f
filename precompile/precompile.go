// Package precompile bridges EVM calls to native runtime dispatchables.
//
// A Precompile is a table of Solidity functions keyed by selector. Each
// method decodes its ABI arguments, maps the caller to a native account,
// builds a native call and submits it through the Runtime capability set.
// Every failure is reported as an Outcome; nothing unwinds past Execute.
package precompile

import (
	"errors"
	"fmt"

	"github.com/atleta-network/atleta/precompile/solidity"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

// Method is a Solidity function exposed by a precompile.
type Method struct {
	// Signature is the canonical function signature, e.g.
	// "requestFunds(address,uint256)".
	Signature string
	// View methods read state only and may be called through STATICCALL.
	View bool
	// Payable methods accept a non-zero call value.
	Payable bool
	// Run decodes the arguments from args and performs the call. It returns
	// the ABI encoded return data.
	Run func(h Handle, args *solidity.Reader) ([]byte, error)
}

// Selector returns the function selector of the method.
func (m *Method) Selector() [solidity.SelectorLength]byte {
	return solidity.Selector(m.Signature)
}

type meter interface {
	Mark(n int64)
}

// Precompile is a named set of methods served at one address.
type Precompile struct {
	name    string
	methods map[[solidity.SelectorLength]byte]*Method
	order   []*Method

	callMeter   meter
	revertMeter meter
	errorMeter  meter
}

// New creates a precompile from its methods. It panics if two methods share
// a selector.
func New(name string, methods ...Method) *Precompile {
	p := &Precompile{
		name:        name,
		methods:     make(map[[solidity.SelectorLength]byte]*Method, len(methods)),
		callMeter:   metrics.NewRegisteredMeter("precompile/"+name+"/calls", nil),
		revertMeter: metrics.NewRegisteredMeter("precompile/"+name+"/reverts", nil),
		errorMeter:  metrics.NewRegisteredMeter("precompile/"+name+"/errors", nil),
	}
	for i := range methods {
		m := methods[i]
		sel := m.Selector()
		if prev, ok := p.methods[sel]; ok {
			panic(fmt.Sprintf("precompile %s: selector %x of %s collides with %s", name, sel, m.Signature, prev.Signature))
		}
		p.methods[sel] = &m
		p.order = append(p.order, &m)
	}
	return p
}

// Name returns the name of the precompile.
func (p *Precompile) Name() string { return p.name }

// Methods returns the methods in registration order.
func (p *Precompile) Methods() []*Method { return p.order }

// Execute runs the call described by h.
func (p *Precompile) Execute(h Handle) (out Outcome) {
	p.callMeter.Mark(1)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Precompile panicked", "precompile", p.name, "caller", h.Caller(), "err", r)
			out = newOutcome(h, nil, Revert(fmt.Sprintf("Precompile panicked: %v", r)))
		}
		switch out.Status {
		case StatusReverted:
			p.revertMeter.Mark(1)
		case StatusErrored:
			p.errorMeter.Mark(1)
		}
	}()
	output, err := p.run(h)
	return newOutcome(h, output, err)
}

func (p *Precompile) run(h Handle) ([]byte, error) {
	sel, args, err := solidity.ReadSelector(h.Input())
	if err != nil {
		return nil, err
	}
	m, ok := p.methods[sel]
	if !ok {
		return nil, Revert("Unknown selector")
	}
	if !m.Payable && !h.Value().IsZero() {
		return nil, Revert("Function is not payable")
	}
	if !m.View && h.IsStatic() {
		return nil, Revert("Can't call non-static function in static context")
	}
	log.Trace("Precompile call", "precompile", p.name, "method", m.Signature, "caller", h.Caller())
	return m.Run(h, solidity.NewReader(args))
}

// Status is the result class of a precompile call.
type Status uint8

const (
	StatusSucceeded Status = iota
	StatusReverted
	StatusErrored
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusReverted:
		return "reverted"
	case StatusErrored:
		return "errored"
	}
	return "unknown"
}

// Outcome is the result of a precompile call as seen by the EVM.
type Outcome struct {
	Status Status
	// Output is the return data. For reverts it holds the Error(string)
	// payload of Reason.
	Output []byte
	// Reason describes why the call reverted or failed.
	Reason string
	// Revert classifies a reverted call.
	Revert RevertKind
	// Exit classifies an errored call.
	Exit    ExitError
	GasUsed uint64
}

func newOutcome(h Handle, output []byte, err error) Outcome {
	if err == nil {
		return Outcome{Status: StatusSucceeded, Output: output, GasUsed: h.UsedGas()}
	}
	var (
		failure *FailureError
		revert  *RevertError
		decode  *solidity.DecodeError
	)
	switch {
	case errors.As(err, &failure):
		return Outcome{
			Status:  StatusErrored,
			Reason:  failure.Reason,
			Exit:    failure.Exit,
			GasUsed: h.UsedGas() + h.RemainingGas(),
		}
	case errors.As(err, &revert):
		return reverted(h, revert.Kind, revert.Reason)
	case errors.As(err, &decode):
		return reverted(h, RevertDecode, decode.Error())
	}
	return reverted(h, RevertCustom, err.Error())
}

func reverted(h Handle, kind RevertKind, reason string) Outcome {
	return Outcome{
		Status:  StatusReverted,
		Output:  solidity.EncodeRevert(reason),
		Reason:  reason,
		Revert:  kind,
		GasUsed: h.UsedGas(),
	}
}
