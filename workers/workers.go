// Package workers locates the prepare and execute worker binaries that the
// node launches for candidate validation, and checks that they were built
// from the same version as the node itself.
package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"
)

// Options carries the operator supplied inputs to worker resolution.
type Options struct {
	// Path is an explicit workers path. It may name a directory holding both
	// binaries or, for testing, a single executable serving both roles. When
	// set, no other location is searched.
	Path string

	// Names overrides the binary names. Nil means DefaultNames.
	Names *Names

	// NodeVersion is the version every worker must report.
	NodeVersion string

	// SkipVersionCheck disables the version gate. Testing only.
	SkipVersionCheck bool
}

// Resolver determines the worker binary paths. The zero value searches the
// directory of the running executable and LibDir.
type Resolver struct {
	// ExeDir overrides the directory of the running executable.
	ExeDir string

	// LibDir overrides the system library directory. Empty means LibDir.
	LibDir string

	// Querier queries worker versions. Nil means ExecQuerier.
	Querier VersionQuerier
}

// Resolve determines the worker paths with the default Resolver.
func Resolve(ctx context.Context, opts Options) (Paths, error) {
	return new(Resolver).Resolve(ctx, opts)
}

// Resolve determines the final pair of worker binaries to use:
//
//  1. Collect candidate pairs from the explicit path or, if none is given,
//     from every well-known location at which both binaries exist.
//  2. Fail if there are none. Warn if there is more than one and continue
//     with the first.
//  3. Fail if either binary is not executable.
//  4. Fail if either binary reports a version other than the node's.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (Paths, error) {
	names := DefaultNames()
	if opts.Names != nil {
		names = *opts.Names
	}
	candidates, searched, err := r.listPaths(opts.Path, names)
	if err != nil {
		return Paths{}, err
	}
	if len(candidates) == 0 {
		return Paths{}, &MissingBinariesError{GivenPath: opts.Path, Names: names, Searched: searched}
	}
	if len(candidates) > 1 {
		log.Warn("Multiple sets of worker binaries found", "sets", candidates, "using", candidates[0])
	}
	paths := candidates[0]
	if !isExecutable(paths.Prepare) || !isExecutable(paths.Execute) {
		return Paths{}, &InvalidBinariesError{PreparePath: paths.Prepare, ExecutePath: paths.Execute}
	}

	if opts.SkipVersionCheck {
		log.Warn("Skipping node/worker version checks. This could result in incorrect behavior in PVF workers.")
		return paths, nil
	}
	querier := r.Querier
	if querier == nil {
		querier = ExecQuerier{}
	}
	for _, kind := range []Kind{Prepare, Execute} {
		path := paths.Path(kind)
		version, err := querier.WorkerVersion(ctx, path)
		if err != nil {
			return Paths{}, &VersionQueryError{Kind: kind, Path: path, Err: err}
		}
		if version != opts.NodeVersion {
			return Paths{}, &VersionMismatchError{Kind: kind, Path: path, WorkerVersion: version, NodeVersion: opts.NodeVersion}
		}
	}
	log.Debug("Worker binaries resolved", "prepare", paths.Prepare, "execute", paths.Execute, "version", opts.NodeVersion)
	return paths, nil
}

// listPaths returns the candidate pairs in probe order, along with every
// location that was probed.
func (r *Resolver) listPaths(given string, names Names) ([]Paths, []string, error) {
	if given != "" {
		log.Trace("Using explicitly provided workers path", "path", given)
		if isExecutable(given) {
			return []Paths{{Prepare: given, Execute: given}}, []string{given}, nil
		}
		paths := buildPaths(given, names)
		if exists(paths.Prepare) && exists(paths.Execute) {
			return []Paths{paths}, []string{given}, nil
		}
		return nil, []string{given}, nil
	}

	exeDir, err := r.exeDir()
	if err != nil {
		return nil, nil, err
	}
	libDir := r.LibDir
	if libDir == "" {
		libDir = LibDir
	}
	var (
		seen     = mapset.NewThreadUnsafeSet[string]()
		searched []string
		found    []Paths
	)
	for _, dir := range []string{exeDir, libDir} {
		if !seen.Add(filepath.Clean(dir)) {
			continue
		}
		searched = append(searched, dir)

		paths := buildPaths(dir, names)
		prepOk, execOk := exists(paths.Prepare), exists(paths.Execute)
		switch {
		case prepOk && execOk:
			log.Trace("Worker binaries found", "dir", dir)
			found = append(found, paths)
		case prepOk:
			log.Warn("Worker binary found without its counterpart", "found", paths.Prepare, "missing", paths.Execute)
		case execOk:
			log.Warn("Worker binary found without its counterpart", "found", paths.Execute, "missing", paths.Prepare)
		}
	}
	return found, searched, nil
}

func (r *Resolver) exeDir() (string, error) {
	if r.ExeDir != "" {
		return r.ExeDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to determine current executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

func buildPaths(dir string, names Names) Paths {
	return Paths{
		Prepare: filepath.Join(dir, names.Prepare),
		Execute: filepath.Join(dir, names.Execute),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isExecutable reports whether path is a regular file with at least one
// execute permission bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
