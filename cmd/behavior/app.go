package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// App is the behavior command line.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

// NewApp builds the command tree.
func NewApp() *App {
	a := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	a.root = &cobra.Command{
		Use:   "behavior",
		Short: "Behavior arbitration engine for a social robot",
		Long: `behavior decides where a social robot looks, which idle gestures and
expressions it plays and how it mirrors the faces it sees, from perception
sightings and conversation events streamed over websockets.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.root.AddCommand(
		a.newRunCmd(),
		a.newCatalogCmd(),
		a.newReplayCmd(),
		a.newCtlCmd(),
	)
	return a
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command line until it finishes or a signal arrives.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the command line with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}
