package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/shell"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// LookupDelay is the pause between successive per-commit pull request
// lookups, keeping unauthenticated runs under the API rate limit. Tests
// set it to zero.
var LookupDelay = 2 * time.Second

// CommitSummaries enumerates the commits between sinceTag and HEAD and
// renders "<title> (#<number>)" for the merged pull request on the base
// branch covering each commit. Commits matched by more than one pull
// request are skipped with a note listing the candidates. A single pull
// request usually covers several commits, so the resulting lines are
// de-duplicated preserving first-seen order.
func CommitSummaries(ctx context.Context, runner shell.Runner, api github.API, sinceTag, base string) (string, error) {
	out := runner.Run(ctx, "git", "log", "--format=%H", sinceTag+"..HEAD")

	var lines []string
	for _, sha := range strings.Fields(out) {
		prs, err := api.PRsForCommit(ctx, sha, base)
		if err != nil {
			return "", err
		}

		switch len(prs) {
		case 0:
			// Direct pushes have no pull request; nothing to report.
		case 1:
			lines = append(lines, fmt.Sprintf("%s (#%d)", prs[0].Title, prs[0].Number))
		default:
			var candidates []string
			for _, pr := range prs {
				candidates = append(candidates, fmt.Sprintf("#%d", pr.Number))
			}
			ui.Infof("Skipping commit %s: matched by more than one pull request (%s)",
				sha, strings.Join(candidates, ", "))
		}

		time.Sleep(LookupDelay)
	}

	return strings.Join(dedup(lines), "\n"), nil
}

// ClosedPRsForMilestone pages through the repository's closed pull requests
// and keeps those attached to the given milestone number. Pagination stops
// at the first empty page, which the API returns for out-of-range indices.
func ClosedPRsForMilestone(ctx context.Context, api github.API, milestoneNumber int) ([]github.PullRequest, error) {
	var matched []github.PullRequest

	for page := 1; page <= maxSearchPages; page++ {
		prs, err := api.ListClosedPRs(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(prs) == 0 {
			break
		}

		for _, pr := range prs {
			if pr.MilestoneNumber == milestoneNumber {
				matched = append(matched, pr)
			}
		}
	}

	return matched, nil
}

// dedup removes duplicates from lines, keeping the first occurrence and
// the original order.
func dedup(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	var out []string
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
