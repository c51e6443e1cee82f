package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// staticQuerier reports a fixed version per worker path.
type staticQuerier map[string]string

func (q staticQuerier) WorkerVersion(_ context.Context, path string) (string, error) {
	v, ok := q[path]
	if !ok {
		return "", fmt.Errorf("unexpected version query for %s", path)
	}
	return v, nil
}

// countingQuerier records every path it was asked about.
type countingQuerier struct {
	version string
	calls   []string
}

func (q *countingQuerier) WorkerVersion(_ context.Context, path string) (string, error) {
	q.calls = append(q.calls, path)
	return q.version, nil
}

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	require.NoError(t, os.Chmod(path, mode))
}

// writeWorker writes a shell script answering the version query with version.
func writeWorker(t *testing.T, path, version string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script workers are not supported on windows")
	}
	script := fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"%s\" ]; then\n  echo \"%s\"\n  exit 0\nfi\nexit 1\n", VersionArg, version)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
}

func installWorkers(t *testing.T, dir string) Paths {
	t.Helper()
	paths := buildPaths(dir, DefaultNames())
	writeFile(t, paths.Prepare, 0o755)
	writeFile(t, paths.Execute, 0o755)
	return paths
}

func TestResolveEndToEnd(t *testing.T) {
	exeDir := t.TempDir()
	writeWorker(t, filepath.Join(exeDir, "prepare-worker"), "testver")
	writeWorker(t, filepath.Join(exeDir, "execute-worker"), "testver")

	r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir()}
	paths, err := r.Resolve(context.Background(), Options{NodeVersion: "testver"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(exeDir, "prepare-worker"), paths.Prepare)
	require.Equal(t, filepath.Join(exeDir, "execute-worker"), paths.Execute)
}

func TestResolveNoWorkers(t *testing.T) {
	exeDir, libDir := t.TempDir(), t.TempDir()

	r := &Resolver{ExeDir: exeDir, LibDir: libDir, Querier: staticQuerier{}}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var missing *MissingBinariesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{exeDir, libDir}, missing.Searched)
	require.Equal(t, DefaultNames(), missing.Names)
	require.Contains(t, err.Error(), exeDir)
	require.Contains(t, err.Error(), libDir)
}

func TestResolvePrefersExeDir(t *testing.T) {
	// The lib dir sorts before the exe dir, which must not matter.
	root := t.TempDir()
	libDir := filepath.Join(root, "a-lib")
	exeDir := filepath.Join(root, "z-exe")
	exePaths := installWorkers(t, exeDir)
	installWorkers(t, libDir)

	q := &countingQuerier{version: "1.0.0"}
	r := &Resolver{ExeDir: exeDir, LibDir: libDir, Querier: q}
	paths, err := r.Resolve(context.Background(), Options{NodeVersion: "1.0.0"})
	require.NoError(t, err)
	require.Equal(t, exePaths, paths)
	require.Equal(t, []string{exePaths.Prepare, exePaths.Execute}, q.calls)
}

func TestResolveSkipsPartialInstall(t *testing.T) {
	exeDir, libDir := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(exeDir, PrepareBinaryName), 0o755)
	libPaths := installWorkers(t, libDir)

	r := &Resolver{ExeDir: exeDir, LibDir: libDir, Querier: &countingQuerier{version: "v"}}
	paths, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})
	require.NoError(t, err)
	require.Equal(t, libPaths, paths)
}

func TestResolvePartialInstallOnly(t *testing.T) {
	exeDir, libDir := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(exeDir, PrepareBinaryName), 0o755)
	writeFile(t, filepath.Join(libDir, ExecuteBinaryName), 0o755)

	r := &Resolver{ExeDir: exeDir, LibDir: libDir, Querier: staticQuerier{}}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var missing *MissingBinariesError
	require.ErrorAs(t, err, &missing)
}

func TestResolveDeduplicatesDirs(t *testing.T) {
	dir := t.TempDir()

	r := &Resolver{ExeDir: dir, LibDir: dir + string(filepath.Separator), Querier: staticQuerier{}}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var missing *MissingBinariesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{dir}, missing.Searched)
}

func TestResolveGivenPathIsExclusive(t *testing.T) {
	exeDir, libDir, given := t.TempDir(), t.TempDir(), t.TempDir()
	installWorkers(t, exeDir)
	installWorkers(t, libDir)
	// Only one of the two binaries at the given path.
	writeFile(t, filepath.Join(given, PrepareBinaryName), 0o755)

	r := &Resolver{ExeDir: exeDir, LibDir: libDir, Querier: &countingQuerier{version: "v"}}
	_, err := r.Resolve(context.Background(), Options{Path: given, NodeVersion: "v"})

	var missing *MissingBinariesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, given, missing.GivenPath)
	require.Equal(t, []string{given}, missing.Searched)
}

func TestResolveGivenDir(t *testing.T) {
	given := t.TempDir()
	names := Names{Prepare: "prep", Execute: "exec"}
	writeFile(t, filepath.Join(given, "prep"), 0o755)
	writeFile(t, filepath.Join(given, "exec"), 0o755)

	r := &Resolver{ExeDir: t.TempDir(), LibDir: t.TempDir(), Querier: &countingQuerier{version: "v"}}
	paths, err := r.Resolve(context.Background(), Options{Path: given, Names: &names, NodeVersion: "v"})
	require.NoError(t, err)
	require.Equal(t, Paths{Prepare: filepath.Join(given, "prep"), Execute: filepath.Join(given, "exec")}, paths)
}

func TestResolveGivenSingleBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "polkadot")
	writeFile(t, bin, 0o755)

	q := &countingQuerier{version: "v"}
	r := &Resolver{ExeDir: t.TempDir(), LibDir: t.TempDir(), Querier: q}
	paths, err := r.Resolve(context.Background(), Options{Path: bin, NodeVersion: "v"})
	require.NoError(t, err)
	require.Equal(t, Paths{Prepare: bin, Execute: bin}, paths)
	// The single binary is version checked in both roles.
	require.Equal(t, []string{bin, bin}, q.calls)
}

func TestResolveNotExecutable(t *testing.T) {
	exeDir := t.TempDir()
	paths := buildPaths(exeDir, DefaultNames())
	writeFile(t, paths.Prepare, 0o755)
	writeFile(t, paths.Execute, 0o644)

	r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir(), Querier: &countingQuerier{version: "v"}}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var invalid *InvalidBinariesError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, paths.Prepare, invalid.PreparePath)
	require.Equal(t, paths.Execute, invalid.ExecutePath)
}

func TestResolveDirectoryIsNotExecutable(t *testing.T) {
	exeDir := t.TempDir()
	paths := buildPaths(exeDir, DefaultNames())
	writeFile(t, paths.Prepare, 0o755)
	require.NoError(t, os.Mkdir(paths.Execute, 0o755))

	r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir(), Querier: &countingQuerier{version: "v"}}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var invalid *InvalidBinariesError
	require.ErrorAs(t, err, &invalid)
}

func TestResolveVersionGate(t *testing.T) {
	tests := []struct {
		prepare, execute string
		failing          Kind
		fails            bool
	}{
		{prepare: "1.2.3", execute: "1.2.3"},
		{prepare: "1.2.4", execute: "1.2.3", failing: Prepare, fails: true},
		{prepare: "1.2.3", execute: "1.2.4", failing: Execute, fails: true},
		{prepare: "1.2.3", execute: "", failing: Execute, fails: true},
		{prepare: "", execute: "1.2.3", failing: Prepare, fails: true},
	}
	for i, tt := range tests {
		exeDir := t.TempDir()
		paths := installWorkers(t, exeDir)
		q := staticQuerier{paths.Prepare: tt.prepare, paths.Execute: tt.execute}

		r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir(), Querier: q}
		got, err := r.Resolve(context.Background(), Options{NodeVersion: "1.2.3"})
		if !tt.fails {
			require.NoError(t, err, "test %d", i)
			require.Equal(t, paths, got, "test %d", i)
			continue
		}
		var mismatch *VersionMismatchError
		require.ErrorAs(t, err, &mismatch, "test %d", i)
		require.Equal(t, tt.failing, mismatch.Kind, "test %d", i)
		require.Equal(t, paths.Path(tt.failing), mismatch.Path, "test %d", i)
		require.Equal(t, "1.2.3", mismatch.NodeVersion, "test %d", i)
		if tt.failing == Prepare {
			require.Equal(t, tt.prepare, mismatch.WorkerVersion, "test %d", i)
		} else {
			require.Equal(t, tt.execute, mismatch.WorkerVersion, "test %d", i)
		}
	}
}

func TestResolveSkipVersionCheck(t *testing.T) {
	exeDir := t.TempDir()
	paths := installWorkers(t, exeDir)

	q := &countingQuerier{version: "other"}
	r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir(), Querier: q}
	got, err := r.Resolve(context.Background(), Options{NodeVersion: "1.2.3", SkipVersionCheck: true})
	require.NoError(t, err)
	require.Equal(t, paths, got)
	require.Empty(t, q.calls)
}

func TestResolveQueryFailure(t *testing.T) {
	exeDir := t.TempDir()
	// A worker that does not understand the version argument.
	script := filepath.Join(exeDir, PrepareBinaryName)
	writeWorker(t, filepath.Join(exeDir, ExecuteBinaryName), "v")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho broken >&2\nexit 3\n"), 0o755))

	r := &Resolver{ExeDir: exeDir, LibDir: t.TempDir()}
	_, err := r.Resolve(context.Background(), Options{NodeVersion: "v"})

	var qerr *VersionQueryError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, Prepare, qerr.Kind)
	require.Contains(t, err.Error(), "broken")
}

func TestExecQuerierHonoursContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script workers are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "hang")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExecQuerier{}.WorkerVersion(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecQuerierTimeoutWithForkedChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script workers are not supported on windows")
	}
	// The background sleep inherits stdout and outlives the killed shell.
	path := filepath.Join(t.TempDir(), "forking")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nsleep 5 &\nsleep 5\n"), 0o755))

	cfg := Config{VersionTimeout: 200 * time.Millisecond}
	ctx, cancel := cfg.ResolveTimeout(context.Background())
	defer cancel()

	start := time.Now()
	_, err := ExecQuerier{}.WorkerVersion(ctx, path)
	require.Error(t, err)
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig
	require.NoError(t, cfg.Validate())

	cfg.PrepareWorkersSoftMaxNum, cfg.PrepareWorkersHardMaxNum = 4, 2
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig
	cfg.ExecuteName = ""
	require.Error(t, cfg.Validate())
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig
	cfg.Path = "/opt/workers"
	cfg.DisableVersionCheck = true

	opts := cfg.Options("1.0.0")
	require.Equal(t, "/opt/workers", opts.Path)
	require.Equal(t, DefaultNames(), *opts.Names)
	require.Equal(t, "1.0.0", opts.NodeVersion)
	require.True(t, opts.SkipVersionCheck)

	ctx, cancel := cfg.ResolveTimeout(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	require.False(t, ok)

	cfg.VersionTimeout = time.Minute
	ctx, cancel = cfg.ResolveTimeout(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	require.True(t, ok)
}
