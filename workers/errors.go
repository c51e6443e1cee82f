package workers

import (
	"fmt"
	"strings"
)

// MissingBinariesError is returned when no searched location contains both
// worker binaries.
type MissingBinariesError struct {
	GivenPath string   // explicit workers path, empty if none was given
	Names     Names    // binary names that were looked for
	Searched  []string // directories (or the single file) that were probed, in order
}

func (e *MissingBinariesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "missing worker binaries %q and %q", e.Names.Prepare, e.Names.Execute)
	if e.GivenPath != "" {
		fmt.Fprintf(&b, " at given workers path %q", e.GivenPath)
	}
	if len(e.Searched) > 0 {
		fmt.Fprintf(&b, " (searched: %s)", strings.Join(e.Searched, ", "))
	}
	return b.String()
}

// InvalidBinariesError is returned when the selected worker files exist but
// are not both executable.
type InvalidBinariesError struct {
	PreparePath string
	ExecutePath string
}

func (e *InvalidBinariesError) Error() string {
	return fmt.Sprintf("worker binaries could not be executed, check permissions: prepare %q, execute %q", e.PreparePath, e.ExecutePath)
}

// VersionMismatchError is returned when a worker reports a version that
// differs from the node version.
type VersionMismatchError struct {
	Kind          Kind
	Path          string
	WorkerVersion string
	NodeVersion   string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s worker binary %q version mismatch: worker version %q, node version %q", e.Kind, e.Path, e.WorkerVersion, e.NodeVersion)
}

// VersionQueryError is returned when a worker could not report its version.
type VersionQueryError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *VersionQueryError) Error() string {
	return fmt.Sprintf("failed to query version of %s worker %q: %v", e.Kind, e.Path, e.Err)
}

func (e *VersionQueryError) Unwrap() error { return e.Err }
