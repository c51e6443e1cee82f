package workers

import (
	"context"
	"errors"
	"time"
)

// Config is the [Workers] section of the node configuration.
type Config struct {
	// Path is the explicit workers path, see Options.Path.
	Path string `toml:",omitempty"`

	PrepareName string
	ExecuteName string

	// DisableVersionCheck skips the node/worker version gate. Testing only.
	DisableVersionCheck bool

	// VersionTimeout bounds each version query. Zero waits indefinitely.
	VersionTimeout time.Duration

	// Pool limits handed to the worker pool supervisor. Zero leaves the
	// supervisor default in place.
	ExecuteWorkersMaxNum     int `toml:",omitempty"`
	PrepareWorkersSoftMaxNum int `toml:",omitempty"`
	PrepareWorkersHardMaxNum int `toml:",omitempty"`
}

// DefaultConfig contains the default worker settings.
var DefaultConfig = Config{
	PrepareName: PrepareBinaryName,
	ExecuteName: ExecuteBinaryName,
}

// Validate checks the pool limits for consistency.
func (c *Config) Validate() error {
	if c.PrepareName == "" || c.ExecuteName == "" {
		return errors.New("worker binary names must not be empty")
	}
	if c.ExecuteWorkersMaxNum < 0 || c.PrepareWorkersSoftMaxNum < 0 || c.PrepareWorkersHardMaxNum < 0 {
		return errors.New("worker limits must not be negative")
	}
	if c.PrepareWorkersSoftMaxNum > 0 && c.PrepareWorkersHardMaxNum > 0 && c.PrepareWorkersSoftMaxNum > c.PrepareWorkersHardMaxNum {
		return errors.New("prepare workers soft max must not exceed the hard max")
	}
	return nil
}

// Options converts the configuration into resolution options for a node
// running nodeVersion.
func (c *Config) Options(nodeVersion string) Options {
	return Options{
		Path:             c.Path,
		Names:            &Names{Prepare: c.PrepareName, Execute: c.ExecuteName},
		NodeVersion:      nodeVersion,
		SkipVersionCheck: c.DisableVersionCheck,
	}
}

// ResolveTimeout returns ctx bounded by VersionTimeout, if one is set.
func (c *Config) ResolveTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.VersionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.VersionTimeout)
}
