package precompile

// RevertKind classifies the reason a call was reverted.
type RevertKind uint8

const (
	RevertCustom   RevertKind = iota
	RevertDecode              // malformed ABI input
	RevertOverflow            // numeric argument does not fit the native type
	RevertLookup              // address is not a registered account
	RevertDispatch            // the native call failed
)

// String returns a human-readable name for the kind.
func (k RevertKind) String() string {
	switch k {
	case RevertCustom:
		return "custom"
	case RevertDecode:
		return "decode"
	case RevertOverflow:
		return "overflow"
	case RevertLookup:
		return "lookup"
	case RevertDispatch:
		return "dispatch"
	}
	return "unknown"
}

// RevertError makes the precompile call revert with Reason.
type RevertError struct {
	Kind   RevertKind
	Reason string
}

func (e *RevertError) Error() string { return e.Reason }

// Revert returns a custom revert error.
func Revert(reason string) error {
	return &RevertError{Kind: RevertCustom, Reason: reason}
}

// ValueTooLarge is the revert for a numeric argument that does not fit its
// native type.
func ValueTooLarge(what string) error {
	return &RevertError{Kind: RevertOverflow, Reason: "Value is too large for " + what}
}

// ExitError classifies calls that fail with an EVM exception rather than a
// revert.
type ExitError uint8

const (
	ExitOutOfGas ExitError = iota
	ExitOther
)

// String returns a human-readable name for the exit.
func (e ExitError) String() string {
	switch e {
	case ExitOutOfGas:
		return "out of gas"
	case ExitOther:
		return "other"
	}
	return "unknown"
}

// FailureError makes the precompile call fail with an EVM exception. All
// gas given to the call is consumed.
type FailureError struct {
	Exit   ExitError
	Reason string
}

func (e *FailureError) Error() string { return e.Reason }

// ErrOutOfGas is returned when a call cannot pay for its work.
var ErrOutOfGas = &FailureError{Exit: ExitOutOfGas, Reason: "out of gas"}

// Failure returns an exceptional failure with a custom reason.
func Failure(reason string) error {
	return &FailureError{Exit: ExitOther, Reason: reason}
}
