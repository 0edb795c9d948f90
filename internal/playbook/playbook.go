package playbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/news"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/shell"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// ErrAborted is returned from [Playbook.Run] when the operator cancels.
// It maps to a zero exit code; stopping the playbook is not an error.
var ErrAborted = errors.New("release playbook canceled")

// ReleaseContext holds the values one release run operates on. It is built
// once at startup from probed defaults plus flag overrides and never
// changes afterwards.
type ReleaseContext struct {
	Repo       string
	Version    string
	BaseBranch string
	LatestTag  string
	Remote     string
	User       string
	Token      string
	Editor     string
}

// Playbook walks the operator through the release checklist. Each state is
// one or more [Executor.Confirm] calls; a skip omits that state's side
// effect and the playbook advances.
//
// There is no rollback. When a later step fails the operator fixes the
// repository by hand and re-runs; re-running branch creation on an existing
// branch surfaces a recoverable error message rather than corrupting state.
type Playbook struct {
	Ctx    ReleaseContext
	Exec   *Executor
	Runner shell.Runner
	API    github.API
	Prober *probe.Prober

	// Now is the clock used for the changelog date line. Tests pin it.
	Now func() time.Time
}

// Run executes the full release sequence.
func (p *Playbook) Run(ctx context.Context) error {
	if p.Now == nil {
		p.Now = time.Now
	}
	version := p.Ctx.Version

	if !strings.Contains(p.Ctx.BaseBranch, "release") {
		if p.Prober.ReleaseBranchExists(ctx, version) {
			return fmt.Errorf("the release branch 'release-%s' already exists but is not checked out.\n"+
				"       Consider deleting the branch if it's not clean or check it out", version)
		}
		outcome := p.Exec.Confirm(ctx, Step{
			Description: fmt.Sprintf("Check out a new branch for the release %s", version),
			Command:     []string{"git", "checkout", "-b", "release-" + version},
			Verify:      []string{"git", "branch", "--show-current"},
		})
		if outcome == Aborted {
			return ErrAborted
		}
	}

	outcome := p.Exec.Confirm(ctx, Step{Description: "Update the NEWS.md file"})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		if err := p.updateNews(ctx); err != nil {
			if errors.Is(err, ErrAborted) {
				return err
			}
			ui.Errorf("%v", err)
		}
	}

	outcome = p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Make the notes in NEWS.md release ready using %s", p.Ctx.Editor),
	})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		if err := p.Runner.Interactive(ctx, p.Ctx.Editor, news.NewsFile); err != nil {
			ui.Errorf("running the editor: %v", err)
		}
	}

	outcome = p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Bump the version where necessary (%s.spec, potentially setup.py)", p.Ctx.Repo),
	})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		p.bumpVersions()
	}

	fmt.Fprintln(ui.Out, p.Runner.Run(ctx, "git", "diff"))
	if p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Please review all changes %s", version),
	}) == Aborted {
		return ErrAborted
	}

	if err := p.commitChanges(ctx); err != nil {
		return err
	}

	if p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Push all release changes to the remote '%s'", p.Ctx.Remote),
		Command:     []string{"git", "push", "--set-upstream", p.Ctx.Remote, "release-" + version},
	}) == Aborted {
		return ErrAborted
	}

	outcome = p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Create a pull request on GitHub for user %s", p.Ctx.User),
	})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		p.createPullRequest(ctx)
	}

	if p.Exec.Confirm(ctx, Step{
		Description: "Has the upstream pull request been merged?",
	}) == Aborted {
		return ErrAborted
	}

	outcome = p.Exec.Confirm(ctx, Step{
		Description: "Switch back to the main branch from upstream and update it",
	})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		p.Runner.Run(ctx, "git", "checkout", p.Ctx.BaseBranch)
		p.Runner.Run(ctx, "git", "pull")
		ui.Infof("You are currently on branch: %s", p.Runner.Run(ctx, "git", "branch", "--show-current"))
	}

	if p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Tag the release with version 'v%s'", version),
		Command:     []string{"git", "tag", "-s", "-m", p.Ctx.Repo + " " + version, "v" + version, "HEAD"},
		Verify:      []string{"git", "describe", "v" + version},
	}) == Aborted {
		return ErrAborted
	}

	if p.Exec.Confirm(ctx, Step{
		Description: "Push the release tag upstream",
		Command:     []string{"git", "push", p.Ctx.Remote, "v" + version},
	}) == Aborted {
		return ErrAborted
	}

	outcome = p.Exec.Confirm(ctx, Step{Description: "Create the release on GitHub"})
	if outcome == Aborted {
		return ErrAborted
	}
	if outcome == Accepted {
		body := fmt.Sprintf("## CHANGES WITH %s", version)
		if err := p.API.CreateRelease(ctx, "v"+version, version, body); err != nil {
			ui.Errorf("%v", err)
		}
	}

	return p.downstreamSteps(ctx)
}

// downstreamSteps covers the Fedora side of a release: merging the
// dist-git pull request, Kerberos auth and scheduling the Koji build.
func (p *Playbook) downstreamSteps(ctx context.Context) error {
	if p.Exec.Confirm(ctx, Step{
		Description: fmt.Sprintf("Merge the pull request in Fedora: https://src.fedoraproject.org/rpms/%s/pull-requests", p.Ctx.Repo),
	}) == Aborted {
		return ErrAborted
	}

	if p.Exec.Confirm(ctx, Step{
		Description: "Get a Kerberos ticket for Fedora",
		Command:     []string{"kinit", p.Ctx.User + "@FEDORAPROJECT.ORG"},
		Verify:      []string{"klist"},
	}) == Aborted {
		return ErrAborted
	}

	if p.Exec.Confirm(ctx, Step{
		Description: "Schedule a build with Koji",
		Command:     []string{"packit", "build"},
	}) == Aborted {
		return ErrAborted
	}

	return nil
}

// updateNews assembles the summaries for this release and prepends them to
// NEWS.md. The strategy depends on the component: osbuild collects pull
// request summaries from the milestone, osbuild-composer concatenates the
// pre-staged snippets from docs/news.
func (p *Playbook) updateNews(ctx context.Context) error {
	contributors := news.Contributors(ctx, p.Runner, p.Ctx.LatestTag)

	var summaries string
	switch p.Ctx.Repo {
	case "osbuild":
		outcome := p.Exec.Confirm(ctx, Step{
			Description: fmt.Sprintf("Update NEWS.md with pull request summaries for milestone %s", p.Ctx.Version),
		})
		if outcome == Aborted {
			return ErrAborted
		}
		if outcome == Skipped {
			return nil
		}

		if p.Ctx.Token == "" {
			ui.Infof("You have not passed a token so you may run into GitHub rate limiting.")
		}

		milestone, err := news.FindMilestone(ctx, p.API, p.Ctx.Version)
		if err != nil {
			if !errors.Is(err, news.ErrNoMilestone) {
				return err
			}
			ui.Infof("Couldn't find a milestone for version %s", p.Ctx.Version)
		} else {
			if summaries, err = news.MilestoneSummaries(ctx, p.API, milestone); err != nil {
				return err
			}
		}

	case "osbuild-composer":
		target := news.NewsDir + "/" + p.Ctx.Version
		outcome := p.Exec.Confirm(ctx, Step{
			Description: fmt.Sprintf("Create '%s' for this release and move all unreleased .md files to it", target),
			Command:     []string{"mkdir", "-p", target},
			Verify:      []string{"ls", "-d", target},
		})
		if outcome == Aborted {
			return ErrAborted
		}
		if outcome == Accepted {
			if err := news.MoveUnreleased(p.Ctx.Version); err != nil {
				return err
			}
			ui.Infof("Content of %s:\n%s", target, p.Runner.Run(ctx, "ls", target))
		}

		outcome = p.Exec.Confirm(ctx, Step{
			Description: fmt.Sprintf("Update NEWS.md with information from the markdown files in '%s'", target),
		})
		if outcome == Aborted {
			return ErrAborted
		}
		if outcome == Skipped {
			return nil
		}

		var err error
		if summaries, err = news.UnreleasedSummaries(p.Ctx.Version); err != nil {
			return err
		}
	}

	return news.PrependChangelog(news.NewsFile, p.Ctx.Version, summaries, contributors, p.Now())
}

func (p *Playbook) bumpVersions() {
	oldVersion := strings.ReplaceAll(p.Ctx.LatestTag, "v", "")

	if err := news.BumpVersion(p.Ctx.Repo+".spec", oldVersion, p.Ctx.Version); err != nil {
		ui.Errorf("%v", err)
	}
	if p.Ctx.Repo == "osbuild" {
		if err := news.BumpVersion("setup.py", oldVersion, p.Ctx.Version); err != nil {
			ui.Errorf("%v", err)
		}
	}
}

// commitChanges stages and commits the release-relevant files. The file
// set differs between the components, osbuild-composer additionally
// carrying the moved news snippets.
func (p *Playbook) commitChanges(ctx context.Context) error {
	repo := p.Ctx.Repo
	version := p.Ctx.Version
	description := fmt.Sprintf("Add and commit the release-relevant changes (%s.spec NEWS.md setup.py)", repo)

	switch repo {
	case "osbuild-composer":
		outcome := p.Exec.Confirm(ctx, Step{Description: description})
		if outcome == Aborted {
			return ErrAborted
		}
		if outcome == Accepted {
			p.Runner.Run(ctx, "git", "add", "docs/news")
			p.Runner.Run(ctx, "git", "commit", repo+".spec", news.NewsFile,
				"docs/news/unreleased", "docs/news/"+version,
				"-s", "-m", version, "-m", "Release osbuild-composer "+version)
		}
	default:
		if p.Exec.Confirm(ctx, Step{
			Description: description,
			Command: []string{"git", "commit", repo + ".spec", news.NewsFile, "setup.py",
				"-s", "-m", version, "-m", fmt.Sprintf("Release %s %s", repo, version)},
		}) == Aborted {
			return ErrAborted
		}
	}
	return nil
}

// createPullRequest opens the release pull request from the operator's
// fork. Missing credentials abort only this step; the playbook proceeds so
// the operator can open the pull request by hand.
func (p *Playbook) createPullRequest(ctx context.Context) {
	if p.Ctx.User == "" || p.Ctx.Token == "" {
		ui.Errorf("Missing credentials for GitHub.\n" +
			"       Without a token you cannot create a pull request.")
		return
	}

	if strings.Contains(p.Ctx.BaseBranch, "release") {
		ui.Infof("You are probably re-executing this script, trying to create a pull request "+
			"against a '%s' (expected: 'main' or 'rhel-*').\n"+
			"       You may want to specify the base branch (--base) manually.", p.Ctx.BaseBranch)
	}

	title := fmt.Sprintf("Prepare release %s", p.Ctx.Version)
	head := fmt.Sprintf("%s:release-%s", p.Ctx.User, p.Ctx.Version)
	body := "Tasks:\n- [ ] Bump version\n- [ ] Update news"

	url, err := p.API.CreatePR(ctx, title, head, p.Ctx.BaseBranch, body)
	if err != nil {
		ui.Errorf("%v", err)
		return
	}
	ui.OKf("Created pull request: %s", url)
}
