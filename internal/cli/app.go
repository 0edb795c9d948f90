// Package cli wires the maintainer-tools command surface: the interactive
// `release` playbook and the `pr-summaries` digest writer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/osbuild/maintainer-tools/internal/config"
	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/shell"
)

// App carries the dependencies the commands need. Tests construct one with
// mocks; [Execute] builds the production wiring.
type App struct {
	Config *config.Config
	Runner shell.Runner

	// Stdin is where the step executor reads operator decisions from.
	Stdin io.Reader

	// NewAPI constructs the GitHub client for a repository. Tests swap in
	// a factory returning a [github.MockAPI].
	NewAPI func(ctx context.Context, owner, repo, token string) github.API

	// Remotes enumerates the configured git remotes, normally
	// [probe.Remotes]. Tests serve a fixed list.
	Remotes func(path string) ([]probe.Remote, error)
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "maintainer-tools",
		Short:         "Step interactively through the osbuild release process",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReleaseCommand(app))
	root.AddCommand(newPRSummariesCommand(app))
	return root
}

// Execute runs the CLI with production dependencies and exits the process
// with the resulting code.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := &App{
		Config: cfg,
		Runner: shell.NewExecRunner(),
		Stdin:  os.Stdin,
		NewAPI: func(ctx context.Context, owner, repo, token string) github.API {
			return github.NewClient(ctx, owner, repo, token)
		},
		Remotes: probe.Remotes,
	}

	if err := NewRootCommand(app).Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
