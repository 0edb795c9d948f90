package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osbuild/maintainer-tools/internal/news"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

func newPRSummariesCommand(app *App) *cobra.Command {
	var version string
	var token string

	cmd := &cobra.Command{
		Use:   "pr-summaries",
		Short: "Write pull request summaries for a milestone to a markdown file",
		Long: `Collect title and body of the closed GitHub pull requests attached to
a milestone and write them to NEWS-<version>.md. A token is optional but
recommended; anonymous API calls are subject to a stricter rate limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPRSummaries(cmd.Context(), app, version, token)
		},
	}

	cmd.Flags().StringVar(&version, "version", "31", "milestone version to collect summaries for")
	cmd.Flags().StringVar(&token, "token", "", "token for GitHub read access (optional)")

	return cmd
}

func runPRSummaries(ctx context.Context, app *App, version, token string) error {
	repo := probe.RepoName()
	api := app.NewAPI(ctx, app.Config.Owner, repo, token)

	milestone, err := news.FindMilestone(ctx, api, version)
	if err != nil {
		ui.Errorf("%v", err)
		return NewExitError(1)
	}
	fmt.Fprintf(ui.Out, "%s (id %d)\n", milestone.Title, milestone.Number)

	filename := fmt.Sprintf("NEWS-%s.md", version)
	if _, err := os.Stat(filename); err == nil {
		ui.Errorf("The file %s already exists.", filename)
		return NewExitError(1)
	}

	prs, err := news.ClosedPRsForMilestone(ctx, api, milestone.Number)
	if err != nil {
		ui.Errorf("%v", err)
		return NewExitError(1)
	}

	file, err := os.Create(filename)
	if err != nil {
		ui.Errorf("%v", err)
		return NewExitError(1)
	}
	defer file.Close()

	for _, pr := range prs {
		fmt.Fprintf(ui.Out, "%s\n", pr.URL)
		fmt.Fprintf(file, "  * %s: %s\n\n", pr.Title, pr.Body)
	}

	fmt.Fprintf(ui.Out, "\nWritten %d PR summaries to %s\n", len(prs), filename)
	return nil
}
