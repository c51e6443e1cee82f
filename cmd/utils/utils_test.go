package utils

import (
	"bytes"
	"flag"
	"testing"
	"time"

	"github.com/atleta-network/atleta/params"
	"github.com/atleta-network/atleta/workers"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runWorker(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli.VersionPrinter = PrintVersion
	var out bytes.Buffer
	app := NewWorkerApp(workers.Prepare, "test worker")
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"prepare-worker"}, args...))
	return out.String(), err
}

func TestWorkerVersion(t *testing.T) {
	out, err := runWorker(t, "--version")
	require.NoError(t, err)
	require.Equal(t, params.Version+"\n", out)
}

func TestWorkerRequiresSocket(t *testing.T) {
	_, err := runWorker(t)
	require.ErrorContains(t, err, "--socket-path is required")
}

func TestWorkerNodeVersion(t *testing.T) {
	_, err := runWorker(t, "--socket-path", "/tmp/pool.sock", "--node-impl-version", "0.0.1")
	require.ErrorIs(t, err, ErrNodeVersionMismatch)

	_, err = runWorker(t, "--socket-path", "/tmp/pool.sock", "--node-impl-version", params.Version)
	require.ErrorIs(t, err, ErrValidationUnsupported)
}

func TestSetWorkersConfig(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range WorkerFlags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse([]string{
		"--workers-path", "/opt/workers",
		"--workers.execute-name", "exec",
		"--disable-worker-version-check",
		"--workers.version-timeout", "3s",
		"--workers.prepare-soft-max", "2",
	}))
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	cfg := workers.DefaultConfig
	SetWorkersConfig(ctx, &cfg)
	require.Equal(t, "/opt/workers", cfg.Path)
	require.Equal(t, workers.PrepareBinaryName, cfg.PrepareName)
	require.Equal(t, "exec", cfg.ExecuteName)
	require.True(t, cfg.DisableVersionCheck)
	require.Equal(t, 3*time.Second, cfg.VersionTimeout)
	require.Equal(t, 2, cfg.PrepareWorkersSoftMaxNum)
	require.Zero(t, cfg.PrepareWorkersHardMaxNum)
}
