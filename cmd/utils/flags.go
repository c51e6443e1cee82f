// Package utils contains internal helper functions for atleta commands.
package utils

import (
	"github.com/atleta-network/atleta/workers"
	"github.com/urfave/cli/v2"
)

const (
	WorkersCategory = "WORKERS"
	LoggingCategory = "LOGGING AND DEBUGGING"
)

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}

	// Worker settings
	WorkersPathFlag = &cli.StringFlag{
		Name:     "workers-path",
		Usage:    "Directory holding the worker binaries, or a single binary serving both roles (testing only)",
		Category: WorkersCategory,
	}
	PrepareWorkerNameFlag = &cli.StringFlag{
		Name:     "workers.prepare-name",
		Usage:    "File name of the prepare worker binary",
		Value:    workers.PrepareBinaryName,
		Category: WorkersCategory,
	}
	ExecuteWorkerNameFlag = &cli.StringFlag{
		Name:     "workers.execute-name",
		Usage:    "File name of the execute worker binary",
		Value:    workers.ExecuteBinaryName,
		Category: WorkersCategory,
	}
	DisableWorkerVersionCheckFlag = &cli.BoolFlag{
		Name:     "disable-worker-version-check",
		Usage:    "TESTING ONLY: disable the version check between node and workers",
		Category: WorkersCategory,
	}
	WorkerVersionTimeoutFlag = &cli.DurationFlag{
		Name:     "workers.version-timeout",
		Usage:    "Maximum time to wait for a worker to report its version (0 = no limit)",
		Category: WorkersCategory,
	}
	ExecuteWorkersMaxNumFlag = &cli.IntFlag{
		Name:     "workers.execute-max",
		Usage:    "Override the maximum number of execute workers",
		Category: WorkersCategory,
	}
	PrepareWorkersSoftMaxNumFlag = &cli.IntFlag{
		Name:     "workers.prepare-soft-max",
		Usage:    "Override the number of prepare workers the pool spawns for regular work",
		Category: WorkersCategory,
	}
	PrepareWorkersHardMaxNumFlag = &cli.IntFlag{
		Name:     "workers.prepare-hard-max",
		Usage:    "Override the absolute number of prepare workers the pool may spawn",
		Category: WorkersCategory,
	}

	// Logging
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: LoggingCategory,
	}
	LogFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a file",
		Category: LoggingCategory,
	}
	LogRotateFlag = &cli.BoolFlag{
		Name:     "log.rotate",
		Usage:    "Enables log file rotation",
		Category: LoggingCategory,
	}
	LogMaxSizeMBsFlag = &cli.IntFlag{
		Name:     "log.maxsize",
		Usage:    "Maximum size in megabytes of the log file before it gets rotated",
		Value:    100,
		Category: LoggingCategory,
	}
)

// WorkerFlags are the flags configuring worker resolution.
var WorkerFlags = []cli.Flag{
	WorkersPathFlag,
	PrepareWorkerNameFlag,
	ExecuteWorkerNameFlag,
	DisableWorkerVersionCheckFlag,
	WorkerVersionTimeoutFlag,
	ExecuteWorkersMaxNumFlag,
	PrepareWorkersSoftMaxNumFlag,
	PrepareWorkersHardMaxNumFlag,
}

// LoggingFlags are the flags configuring the logger.
var LoggingFlags = []cli.Flag{
	VerbosityFlag,
	LogFileFlag,
	LogRotateFlag,
	LogMaxSizeMBsFlag,
}

// SetWorkersConfig applies worker related command line flags to the config.
func SetWorkersConfig(ctx *cli.Context, cfg *workers.Config) {
	if ctx.IsSet(WorkersPathFlag.Name) {
		cfg.Path = ctx.String(WorkersPathFlag.Name)
	}
	if ctx.IsSet(PrepareWorkerNameFlag.Name) {
		cfg.PrepareName = ctx.String(PrepareWorkerNameFlag.Name)
	}
	if ctx.IsSet(ExecuteWorkerNameFlag.Name) {
		cfg.ExecuteName = ctx.String(ExecuteWorkerNameFlag.Name)
	}
	if ctx.IsSet(DisableWorkerVersionCheckFlag.Name) {
		cfg.DisableVersionCheck = ctx.Bool(DisableWorkerVersionCheckFlag.Name)
	}
	if ctx.IsSet(WorkerVersionTimeoutFlag.Name) {
		cfg.VersionTimeout = ctx.Duration(WorkerVersionTimeoutFlag.Name)
	}
	if ctx.IsSet(ExecuteWorkersMaxNumFlag.Name) {
		cfg.ExecuteWorkersMaxNum = ctx.Int(ExecuteWorkersMaxNumFlag.Name)
	}
	if ctx.IsSet(PrepareWorkersSoftMaxNumFlag.Name) {
		cfg.PrepareWorkersSoftMaxNum = ctx.Int(PrepareWorkersSoftMaxNumFlag.Name)
	}
	if ctx.IsSet(PrepareWorkersHardMaxNumFlag.Name) {
		cfg.PrepareWorkersHardMaxNum = ctx.Int(PrepareWorkersHardMaxNumFlag.Name)
	}
}
