package workers

// Kind identifies which companion binary role is being resolved or launched.
type Kind uint8

const (
	Prepare Kind = iota
	Execute
)

// String returns a human-readable name for the worker role.
func (k Kind) String() string {
	switch k {
	case Prepare:
		return "prepare"
	case Execute:
		return "execute"
	}
	return "unknown"
}

const (
	// PrepareBinaryName is the default file name of the prepare worker.
	PrepareBinaryName = "prepare-worker"
	// ExecuteBinaryName is the default file name of the execute worker.
	ExecuteBinaryName = "execute-worker"

	// LibDir is the well-known system directory searched for worker binaries.
	LibDir = "/usr/lib/polkadot"
)

// Names holds the file names of the two worker binaries.
type Names struct {
	Prepare string
	Execute string
}

// DefaultNames returns the stock worker binary names.
func DefaultNames() Names {
	return Names{Prepare: PrepareBinaryName, Execute: ExecuteBinaryName}
}

// Name returns the binary name configured for the given role.
func (n Names) Name(kind Kind) string {
	if kind == Execute {
		return n.Execute
	}
	return n.Prepare
}

// Paths is a resolved pair of worker executables. Both fields are always set.
type Paths struct {
	Prepare string
	Execute string
}

// Path returns the executable path for the given role.
func (p Paths) Path(kind Kind) string {
	if kind == Execute {
		return p.Execute
	}
	return p.Prepare
}
