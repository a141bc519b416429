package app

import (
	"io"
	"log/slog"

	"github.com/sbogolepov/kotlin-llvm-builder/internal/cli"
	"github.com/sbogolepov/kotlin-llvm-builder/internal/hostenv"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	command  *cli.Command
	resolver *hostenv.Resolver
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func New(outW io.Writer, command *cli.Command) *App {
	logger := newLogger(command.Common.LogLevel, command.Common.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		command:  command,
		resolver: hostenv.NewResolver(),
	}
}
