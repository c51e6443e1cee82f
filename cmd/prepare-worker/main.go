// prepare-worker is the companion binary the node launches to compile candidate
// validation code.
package main

import (
	"fmt"
	"os"

	"github.com/atleta-network/atleta/cmd/utils"
	"github.com/atleta-network/atleta/workers"
	"github.com/urfave/cli/v2"
)

func init() {
	// The node compares the --version output verbatim.
	cli.VersionPrinter = utils.PrintVersion
}

func main() {
	app := utils.NewWorkerApp(workers.Prepare, "atleta prepare worker")
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
