package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging installs the default logger according to the logging flags.
func SetupLogging(ctx *cli.Context) error {
	var (
		output   io.Writer = os.Stderr
		useColor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		logFile            = ctx.String(LogFileFlag.Name)
	)
	switch {
	case logFile != "" && ctx.Bool(LogRotateFlag.Name):
		output = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    ctx.Int(LogMaxSizeMBsFlag.Name),
			MaxBackups: 10,
			MaxAge:     30,
			Compress:   true,
		}
		useColor = false
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		useColor = false
	case useColor:
		output = colorable.NewColorableStderr()
	}

	glogger := log.NewGlogHandler(log.NewTerminalHandler(output, useColor))
	glogger.Verbosity(log.FromLegacyLevel(ctx.Int(VerbosityFlag.Name)))
	log.SetDefault(log.NewLogger(glogger))
	return nil
}
