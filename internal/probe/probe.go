// Package probe derives the default values the release playbook starts
// from: repository name, current branch, latest tag, next version, push
// remote, username, GitHub token and editor.
//
// Every function is an independent read-only query. Nothing in this package
// mutates the repository; git is consulted either through read-only
// subcommands ([shell.Runner]) or by opening the repository with go-git.
package probe

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/osbuild/maintainer-tools/internal/shell"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// Prober answers environment queries using a command runner for the
// read-only git subcommands.
type Prober struct {
	Runner shell.Runner
}

// New creates a Prober.
func New(runner shell.Runner) *Prober {
	return &Prober{Runner: runner}
}

// RepoName returns the base name of the working directory, which by
// convention is the name of the component being released.
func RepoName() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Base(cwd)
}

// ErrPrecondition reports a fatal precondition failure; the caller is
// expected to print it and exit non-zero.
type ErrPrecondition struct {
	Reason string
}

func (e *ErrPrecondition) Error() string {
	return e.Reason
}

// SanityChecks verifies we are in a git repository on a sensible branch and
// reports advisory conditions (release branch, point release, dirty tree).
// It returns the current branch name.
func (p *Prober) SanityChecks(ctx context.Context, repo string) (string, error) {
	if !strings.Contains(repo, "osbuild") {
		ui.Infof("This tool is only tested with 'osbuild' and 'osbuild-composer'.")
	}

	if p.Runner.Run(ctx, "git", "rev-parse", "--is-inside-work-tree") != "true" {
		return "", &ErrPrecondition{Reason: "this is not a git repository"}
	}

	branch := p.Runner.Run(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	switch {
	case strings.Contains(branch, "release"):
		ui.Infof("You are already on a release branch: %s", branch)
	case strings.Contains(branch, "rhel-8"):
		ui.Infof("You are going for a point release against: %s", branch)
	case branch != "main":
		return "", &ErrPrecondition{
			Reason: fmt.Sprintf("you are not on the 'main' branch but on branch '%s'", branch),
		}
	}

	if p.Runner.Run(ctx, "git", "status", "--untracked-files=no", "--porcelain") != "" {
		status := p.Runner.Run(ctx, "git", "status", "--untracked-files=no", "-s")
		ui.Infof("The working directory is not clean.\n"+
			"You have the following unstaged or uncommitted changes:\n%s", status)
	}

	return branch, nil
}

// LatestTag returns the most recent tag reachable from HEAD, or the empty
// string when the repository has no tags yet.
func (p *Prober) LatestTag(ctx context.Context) string {
	return p.Runner.Run(ctx, "git", "describe", "--abbrev=0")
}

// NextVersion bumps the latest tag by one.
//
// Three shapes are recognized, matching the project's tagging scheme:
// no tag at all yields "1"; a dotted tag like "v3.1" keeps the major part
// and increments only the final character as a digit ("3.2"); a plain tag
// like "v31" is treated as an integer ("32"). This is a narrow convention,
// not a semver bump; a plain tag outside it (like "rc1") yields an error
// and the operator has to pass the version explicitly.
func NextVersion(latestTag string) (string, error) {
	if latestTag == "" {
		return "1", nil
	}
	if strings.Contains(latestTag, ".") {
		major := strings.SplitN(strings.ReplaceAll(latestTag, "v", ""), ".", 2)[0]
		last := int(latestTag[len(latestTag)-1] - '0')
		return major + "." + strconv.Itoa(last+1), nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(latestTag, "v", ""))
	if err != nil {
		return "", fmt.Errorf("cannot derive the next version from tag '%s'", latestTag)
	}
	return strconv.Itoa(n + 1), nil
}

// GuessPushRemote returns the name of the presumed fork remote, i.e. the
// first remote whose URL does not match the canonical upstream location
// github.com[/:]osbuild/<repo>.git.
//
// With more than two remotes the guess would likely be wrong, so the empty
// string is returned and the operator must pass --remote. Only correct when
// exactly one non-upstream remote exists among at most two.
func GuessPushRemote(repo string, remotes []Remote) string {
	if len(remotes) > 2 {
		return ""
	}

	upstream := regexp.MustCompile(fmt.Sprintf(`github\.com[/:]osbuild/%s\.git`, regexp.QuoteMeta(repo)))
	for _, remote := range remotes {
		if !upstream.MatchString(remote.URL) {
			return remote.Name
		}
	}
	return ""
}

// Username returns the local login name, the default for the GitHub user.
func Username() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// Editor returns the operator's preferred editor from $EDITOR.
func Editor() string {
	return os.Getenv("EDITOR")
}

// ReleaseBranchExists reports whether a local branch for the given release
// version already exists.
func (p *Prober) ReleaseBranchExists(ctx context.Context, version string) bool {
	branches := strings.Fields(p.Runner.Run(ctx, "git", "branch"))
	for _, branch := range branches {
		if strings.Contains(branch, "release-"+version) {
			return true
		}
	}
	return false
}
