// atleta is the command line client of the atleta node.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atleta-network/atleta/cmd/utils"
	"github.com/atleta-network/atleta/core/vm"
	"github.com/atleta-network/atleta/native/memory"
	"github.com/atleta-network/atleta/params"
	"github.com/atleta-network/atleta/workers"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "atleta"
	app.Usage = "the atleta node command line interface"
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Flags = append(append([]cli.Flag{utils.ConfigFileFlag}, utils.WorkerFlags...), utils.LoggingFlags...)
	app.Before = utils.SetupLogging
	app.Action = start
	app.Commands = []*cli.Command{
		dumpConfigCommand,
		precompilesCommand,
		callCommand,
	}
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// start resolves the worker binaries and sets up the execution backend.
// Missing, invalid or mismatched workers abort startup.
func start(ctx *cli.Context) error {
	if args := ctx.Args().Slice(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rctx, cancel := cfg.Workers.ResolveTimeout(sigctx)
	paths, err := workers.Resolve(rctx, cfg.Workers.Options(params.Version))
	cancel()
	if err != nil {
		return fmt.Errorf("failed to resolve worker binaries: %w", err)
	}
	log.Info("Resolved worker binaries", "prepare", paths.Prepare, "execute", paths.Execute)

	rt := memory.New(cfg.Runtime, nil)
	set := vm.DefaultPrecompiles(rt)
	log.Info("Starting atleta", "version", params.VersionWithCommit(gitCommit, gitDate), "precompiles", len(set.Addresses()))

	<-sigctx.Done()
	log.Info("Shutting down")
	return nil
}
