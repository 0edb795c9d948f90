package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osbuild/maintainer-tools/internal/playbook"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// releaseOptions are the flag values of the release command. Empty values
// mean "use the probed default".
type releaseOptions struct {
	version string
	remote  string
	user    string
	token   string
	editor  string
	base    string
}

func newReleaseCommand(app *App) *cobra.Command {
	opts := &releaseOptions{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Step interactively through the release playbook",
		Long: `Walk through the steps of cutting a release: branching, changelog
assembly, version bumping, committing, tagging, pushing, opening a pull
request and creating a GitHub release.

Every flag defaults to a value probed from the repository and the
environment; invoking the command with no flags runs the full playbook
against those defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.version, "version", "v", "", "version for the release (default: latest tag + 1)")
	cmd.Flags().StringVarP(&opts.remote, "remote", "r", "", "git remote to push the release changes to (default: guessed fork remote)")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "username on GitHub (default: local username)")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "GitHub token (default: $GITHUB_TOKEN or packit config)")
	cmd.Flags().StringVarP(&opts.editor, "editor", "e", "", "editor used for NEWS.md (default: $EDITOR)")
	cmd.Flags().StringVarP(&opts.base, "base", "b", "", "base branch the release targets (default: current branch)")

	return cmd
}

func runRelease(ctx context.Context, app *App, opts *releaseOptions) error {
	releaseCtx, err := buildReleaseContext(ctx, app, opts)
	if err != nil {
		ui.Errorf("%v", err)
		return NewExitError(1)
	}

	ui.Infof("Updating branch '%s' to avoid conflicts...\n%s",
		releaseCtx.BaseBranch, app.Runner.Run(ctx, "git", "pull"))

	printConfig(releaseCtx)

	pb := &playbook.Playbook{
		Ctx:    releaseCtx,
		Exec:   playbook.NewExecutor(app.Runner, app.Stdin),
		Runner: app.Runner,
		API:    app.NewAPI(ctx, app.Config.Owner, releaseCtx.Repo, releaseCtx.Token),
		Prober: probe.New(app.Runner),
	}

	if err := pb.Run(ctx); err != nil {
		if errors.Is(err, playbook.ErrAborted) {
			return nil
		}
		ui.Errorf("%v", err)
		return NewExitError(1)
	}
	return nil
}

// buildReleaseContext fills the release context from flags, config and
// probed defaults, in that priority order. It performs the sanity checks
// and fails on fatal preconditions.
func buildReleaseContext(ctx context.Context, app *App, opts *releaseOptions) (playbook.ReleaseContext, error) {
	repo := probe.RepoName()
	prober := probe.New(app.Runner)

	branch, err := prober.SanityChecks(ctx, repo)
	if err != nil {
		return playbook.ReleaseContext{}, err
	}

	latestTag := prober.LatestTag(ctx)

	version := opts.version
	if version == "" {
		if latestTag == "" {
			ui.Infof("There are no tags yet in this repository.")
		}
		if version, err = probe.NextVersion(latestTag); err != nil {
			return playbook.ReleaseContext{}, fmt.Errorf(
				"%w.\n       Please use the --version argument to set one", err)
		}
	}

	remotes, err := app.Remotes(".")
	if err != nil {
		return playbook.ReleaseContext{}, fmt.Errorf("listing git remotes: %w", err)
	}

	remote := firstNonEmpty(opts.remote, app.Config.Remote)
	if remote == "" {
		remote = probe.GuessPushRemote(repo, remotes)
	}
	if len(remotes) > 2 && remote == "" {
		names := make([]string, 0, len(remotes))
		for _, r := range remotes {
			names = append(names, r.Name)
		}
		return playbook.ReleaseContext{}, fmt.Errorf(
			"you have more than two git remotes, so guessing where to create "+
				"the pull request from would likely fail.\n"+
				"       Please use the --remote argument to set the correct one: %s",
			strings.Join(names, ", "))
	}

	token := opts.token
	if token == "" {
		if token, err = probe.DiscoverToken(); err != nil {
			return playbook.ReleaseContext{}, fmt.Errorf("discovering GitHub token: %w", err)
		}
	}

	return playbook.ReleaseContext{
		Repo:       repo,
		Version:    version,
		BaseBranch: firstNonEmpty(opts.base, branch),
		LatestTag:  latestTag,
		Remote:     remote,
		User:       firstNonEmpty(opts.user, app.Config.User, probe.Username()),
		Token:      token,
		Editor:     firstNonEmpty(opts.editor, app.Config.Editor, probe.Editor()),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printConfig(releaseCtx playbook.ReleaseContext) {
	fmt.Fprintf(ui.Out, "\n--------------------------------\n"+
		"%s\n"+
		"  Component:     %s\n"+
		"  Version:       %s\n"+
		"  Base branch:   %s\n"+
		"%s\n"+
		"  User:          %s\n"+
		"  Token:         %t\n"+
		"  Remote:        %s\n"+
		"--------------------------------\n\n",
		ui.Bold.Render("Release:"), releaseCtx.Repo, releaseCtx.Version, releaseCtx.BaseBranch,
		ui.Bold.Render("GitHub:"), releaseCtx.User, releaseCtx.Token != "", releaseCtx.Remote)
}
