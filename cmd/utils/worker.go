package utils

import (
	"errors"
	"fmt"

	"github.com/atleta-network/atleta/params"
	"github.com/atleta-network/atleta/workers"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	SocketPathFlag = &cli.StringFlag{
		Name:  "socket-path",
		Usage: "Socket the worker pool listens on",
	}
	NodeVersionFlag = &cli.StringFlag{
		Name:  "node-impl-version",
		Usage: "Version of the node that launched the worker",
	}
)

var (
	// ErrNodeVersionMismatch is returned when a worker is started by a node
	// of a different version.
	ErrNodeVersionMismatch = errors.New("node and worker version mismatch")

	// ErrValidationUnsupported is returned once a worker has passed its
	// startup checks. Candidate validation is not part of this build.
	ErrValidationUnsupported = errors.New("candidate validation is not supported by this build")
)

// NewWorkerApp creates the command line app of a worker binary. Invoked with
// --version it prints params.Version, which is what the node compares.
func NewWorkerApp(kind workers.Kind, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = workers.DefaultNames().Name(kind)
	app.Usage = usage
	app.Version = params.Version
	app.HideHelpCommand = true
	app.Flags = append([]cli.Flag{SocketPathFlag, NodeVersionFlag}, LoggingFlags...)
	app.Before = SetupLogging
	app.Action = func(ctx *cli.Context) error {
		if err := checkNodeVersion(ctx, kind); err != nil {
			return err
		}
		return fmt.Errorf("%s worker: %w", kind, ErrValidationUnsupported)
	}
	return app
}

// PrintVersion prints the bare version. Set it as cli.VersionPrinter in
// worker binaries.
func PrintVersion(ctx *cli.Context) {
	fmt.Fprintln(ctx.App.Writer, ctx.App.Version)
}

func checkNodeVersion(ctx *cli.Context, kind workers.Kind) error {
	if !ctx.IsSet(SocketPathFlag.Name) {
		return fmt.Errorf("%s worker: --%s is required", kind, SocketPathFlag.Name)
	}
	if node := ctx.String(NodeVersionFlag.Name); node != "" && node != params.Version {
		log.Error("Worker started by a node of another version", "worker", kind, "node", node, "own", params.Version)
		return fmt.Errorf("%w: node %s, worker %s", ErrNodeVersionMismatch, node, params.Version)
	}
	log.Info("Worker started", "kind", kind, "socket", ctx.String(SocketPathFlag.Name), "version", params.Version)
	return nil
}
