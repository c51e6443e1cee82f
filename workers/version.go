package workers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// VersionArg is the command line argument that makes a worker binary print
// its version and exit.
const VersionArg = "--version"

// versionWaitDelay bounds how long a version query waits for the output
// pipes to close once the worker has exited or been killed. Processes
// forked by the worker may keep them open.
const versionWaitDelay = 500 * time.Millisecond

// VersionQuerier obtains the self-reported version of a worker binary.
type VersionQuerier interface {
	WorkerVersion(ctx context.Context, path string) (string, error)
}

// ExecQuerier runs the worker with VersionArg and reads the version from its
// standard output. The call blocks until the worker exits or ctx is done.
type ExecQuerier struct{}

// WorkerVersion implements VersionQuerier.
func (ExecQuerier) WorkerVersion(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, VersionArg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = versionWaitDelay
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}
