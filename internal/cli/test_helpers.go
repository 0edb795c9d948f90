package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osbuild/maintainer-tools/internal/config"
	"github.com/osbuild/maintainer-tools/internal/github"
	"github.com/osbuild/maintainer-tools/internal/probe"
	"github.com/osbuild/maintainer-tools/internal/shell"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// newTestApp builds an App around mocks: a recording command runner, a
// canned GitHub API and a fixed remote list.
func newTestApp(runner *shell.MockRunner, api *github.MockAPI, remotes []probe.Remote) *App {
	return &App{
		Config: config.DefaultConfig(),
		Runner: runner,
		Stdin:  strings.NewReader(""),
		NewAPI: func(ctx context.Context, owner, repo, token string) github.API {
			return api
		},
		Remotes: func(path string) ([]probe.Remote, error) {
			return remotes, nil
		},
	}
}

// cleanRepoRunner serves the git queries of the sanity checks for a clean
// checkout of main with the given latest tag.
func cleanRepoRunner(latestTag string) *shell.MockRunner {
	return &shell.MockRunner{Outputs: map[string]string{
		"git rev-parse --is-inside-work-tree": "true",
		"git rev-parse --abbrev-ref HEAD":     "main",
		"git describe --abbrev=0":             latestTag,
	}}
}

// chdirTemp switches to a fresh temporary directory for the duration of
// the test. The repository name probe reads the directory base name.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	old := ui.Out
	ui.Out = buf
	t.Cleanup(func() { ui.Out = old })
	return buf
}
