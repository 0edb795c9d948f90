package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// ErrNoMilestone reports that no milestone title contained the requested
// version string.
var ErrNoMilestone = errors.New("no milestone found for version")

// maxSearchPages bounds the pull request pagination loops. The API-reported
// total can move while the repository is active, so without a ceiling the
// accumulate-until-total loop could spin forever.
const maxSearchPages = 50

// FindMilestone returns the first milestone whose title contains version as
// a substring. With titles like "31" and "131" the match is ambiguous; the
// first one the API lists wins, matching long-standing behavior.
func FindMilestone(ctx context.Context, api github.API, version string) (github.Milestone, error) {
	milestones, err := api.ListMilestones(ctx)
	if err != nil {
		return github.Milestone{}, err
	}

	for _, milestone := range milestones {
		if strings.Contains(milestone.Title, version) {
			ui.Infof("Gathering pull requests for milestone '%s' (%s)", milestone.Title, milestone.URL)
			return milestone, nil
		}
	}
	return github.Milestone{}, fmt.Errorf("%w %s", ErrNoMilestone, version)
}

// MilestoneSummaries pages through the closed pull requests of a milestone
// and renders one summary per pull request: the "Release Notes" code block
// from the body when present, otherwise "  * <title>: <body>". Summaries
// are joined with blank lines in API encounter order.
func MilestoneSummaries(ctx context.Context, api github.API, milestone github.Milestone) (string, error) {
	var summaries []string
	count := 0

	for page := 1; page <= maxSearchPages; page++ {
		items, total, err := api.SearchClosedPRs(ctx, milestone.Title, page)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			break
		}

		for _, pr := range items {
			if pr.State != "closed" {
				continue
			}
			fmt.Fprintf(ui.Out, " * %s\n", pr.URL)

			summary := ExtractReleaseNotes(pr.Body)
			if summary == "" {
				summary = fmt.Sprintf("  * %s: %s", pr.Title, pr.Body)
			}
			summaries = append(summaries, summary)
		}

		count += len(items)
		if count >= total {
			break
		}
	}

	ui.OKf("Collected summaries from %d pull requests.", len(summaries))
	return strings.Join(summaries, "\n\n"), nil
}
