package playbook

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/news"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/shell"
)

func testContext() ReleaseContext {
	return ReleaseContext{
		Repo:       "osbuild",
		Version:    "6",
		BaseBranch: "main",
		LatestTag:  "v5",
		Remote:     "fork",
		User:       "jdoe",
		Token:      "ghp_token",
		Editor:     "vim",
	}
}

func newTestPlaybook(input string, runner *shell.MockRunner, api *github.MockAPI) *Playbook {
	return &Playbook{
		Ctx:    testContext(),
		Exec:   NewExecutor(runner, strings.NewReader(input)),
		Runner: runner,
		API:    api,
		Prober: probe.New(runner),
		Now:    func() time.Time { return time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestRunCreatesReleaseBranch(t *testing.T) {
	captureOutput(t)
	runner := &shell.MockRunner{}
	// Accept the branch step, then quit.
	p := newTestPlaybook("y\nq\n", runner, &github.MockAPI{})

	err := p.Run(context.Background())

	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, runner.Calls, "git checkout -b release-6")
	assert.Contains(t, runner.Calls, "git branch --show-current")
}

func TestRunRefusesExistingReleaseBranch(t *testing.T) {
	captureOutput(t)
	runner := &shell.MockRunner{Outputs: map[string]string{
		"git branch": "* main\n  release-6",
	}}
	p := newTestPlaybook("", runner, &github.MockAPI{})

	err := p.Run(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAborted)
	assert.Contains(t, err.Error(), "release-6")
	assert.NotContains(t, runner.Calls, "git checkout -b release-6")
}

func TestRunSkipsBranchStepOnReleaseBase(t *testing.T) {
	captureOutput(t)
	runner := &shell.MockRunner{}
	p := newTestPlaybook("q\n", runner, &github.MockAPI{})
	p.Ctx.BaseBranch = "release-6"

	err := p.Run(context.Background())

	assert.ErrorIs(t, err, ErrAborted)
	assert.NotContains(t, runner.Calls, "git checkout -b release-6")
}

func TestRunFullAcceptedSequence(t *testing.T) {
	dir := chdirTemp(t)
	captureOutput(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "NEWS.md"),
		[]byte("## CHANGES WITH 5:\n\nold\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "osbuild.spec"),
		[]byte("Version:        5\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.py"),
		[]byte("version=\"5\"\n"), 0644))

	runner := &shell.MockRunner{Outputs: map[string]string{
		`git log --format="%an" v5..HEAD`: "\"Alice\"\n\"Bob\"",
	}}
	api := &github.MockAPI{
		Milestones: []github.Milestone{{Number: 2, Title: "6"}},
		SearchPages: [][]github.PullRequest{{
			{Number: 12, Title: "Add thing", State: "closed", Body: "does a thing"},
		}},
		SearchTotal: 1,
	}

	// Accept every step: branch, news (outer+inner), editor, bump, review,
	// commit, push, PR, merge wait, switch back, tag, push tag, release,
	// Fedora merge, kinit, packit build.
	input := strings.Repeat("y\n", 17)
	p := newTestPlaybook(input, runner, api)

	err := p.Run(context.Background())
	require.NoError(t, err)

	// Changelog got the new section and kept the old content.
	content, err := os.ReadFile(filepath.Join(dir, "NEWS.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "## CHANGES WITH 6:\n\n  * Add thing: does a thing\nContributions from: Alice, Bob\n\n— Location, 2022-06-01\n\n"))
	assert.True(t, strings.HasSuffix(string(content), "## CHANGES WITH 5:\n\nold\n"))

	// Version got bumped in both files.
	spec, err := os.ReadFile(filepath.Join(dir, "osbuild.spec"))
	require.NoError(t, err)
	assert.Equal(t, "Version:        6\n", string(spec))

	// The editor was spawned on the changelog.
	assert.Equal(t, []string{"vim NEWS.md"}, runner.InteractiveCalls)

	// Git mutations ran in order.
	assert.Contains(t, runner.Calls, "git checkout -b release-6")
	assert.Contains(t, runner.Calls, "git commit osbuild.spec NEWS.md setup.py -s -m 6 -m Release osbuild 6")
	assert.Contains(t, runner.Calls, "git push --set-upstream fork release-6")
	assert.Contains(t, runner.Calls, "git tag -s -m osbuild 6 v6 HEAD")
	assert.Contains(t, runner.Calls, "git push fork v6")

	// The pull request and the release were created.
	require.Len(t, api.CreatedPRs, 1)
	assert.Equal(t, "Prepare release 6", api.CreatedPRs[0].Title)
	assert.Equal(t, "jdoe:release-6", api.CreatedPRs[0].Head)
	assert.Equal(t, "main", api.CreatedPRs[0].Base)

	require.Len(t, api.CreatedReleases, 1)
	assert.Equal(t, github.CreatedRelease{Tag: "v6", Name: "6", Body: "## CHANGES WITH 6"}, api.CreatedReleases[0])
}

func TestRunSkippedNewsLeavesChangelogAlone(t *testing.T) {
	dir := chdirTemp(t)
	captureOutput(t)

	previous := "## CHANGES WITH 5:\n\nold\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NEWS.md"), []byte(previous), 0644))

	runner := &shell.MockRunner{}
	// Accept branch, skip news, then quit.
	p := newTestPlaybook("y\ns\nq\n", runner, &github.MockAPI{})

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)

	content, readErr := os.ReadFile(filepath.Join(dir, "NEWS.md"))
	require.NoError(t, readErr)
	assert.Equal(t, previous, string(content))
}

func TestCreatePullRequestWithoutCredentials(t *testing.T) {
	buf := captureOutput(t)
	api := &github.MockAPI{}
	p := newTestPlaybook("", &shell.MockRunner{}, api)
	p.Ctx.Token = ""

	p.createPullRequest(context.Background())

	assert.Empty(t, api.CreatedPRs)
	assert.Contains(t, buf.String(), "Missing credentials")
}

func TestUpdateNewsComposerUsesStagedNotes(t *testing.T) {
	dir := chdirTemp(t)
	captureOutput(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "NEWS.md"), []byte("old\n"), 0644))
	staged := filepath.Join(news.NewsDir, "unreleased")
	require.NoError(t, os.MkdirAll(staged, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staged, "change.md"), []byte("# Composer change\n"), 0644))

	runner := &shell.MockRunner{}
	// Accept the move step and the update step.
	p := newTestPlaybook("y\ny\n", runner, &github.MockAPI{})
	p.Ctx.Repo = "osbuild-composer"

	require.NoError(t, p.updateNews(context.Background()))

	content, err := os.ReadFile(filepath.Join(dir, "NEWS.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "  * Composer change\n")
	assert.True(t, strings.HasSuffix(string(content), "old\n"))
	assert.FileExists(t, filepath.Join(news.NewsDir, "6", "change.md"))
}
