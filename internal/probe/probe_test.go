package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osbuild/maintainer-tools/internal/shell"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		name      string
		latestTag string
		want      string
	}{
		{name: "no tags yet", latestTag: "", want: "1"},
		{name: "plain tag", latestTag: "v31", want: "32"},
		{name: "plain tag single digit", latestTag: "v5", want: "6"},
		{name: "dotted tag", latestTag: "v3.1", want: "3.2"},
		{name: "dotted tag two digit major", latestTag: "v35.1", want: "35.2"},
		{name: "tag without v prefix", latestTag: "42", want: "43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextVersion(tt.latestTag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unparseable plain tag", func(t *testing.T) {
		_, err := NextVersion("rc1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rc1")
	})
}

func TestGuessPushRemote(t *testing.T) {
	t.Run("returns fork remote", func(t *testing.T) {
		remotes := []Remote{
			{Name: "fork", URL: "git@github.com:jdoe/osbuild.git"},
			{Name: "origin", URL: "https://github.com/osbuild/osbuild.git"},
		}
		assert.Equal(t, "fork", GuessPushRemote("osbuild", remotes))
	})

	t.Run("matches ssh upstream url", func(t *testing.T) {
		remotes := []Remote{
			{Name: "myfork", URL: "https://github.com/jdoe/osbuild-composer.git"},
			{Name: "origin", URL: "git@github.com:osbuild/osbuild-composer.git"},
		}
		assert.Equal(t, "myfork", GuessPushRemote("osbuild-composer", remotes))
	})

	t.Run("ambiguous with more than two remotes", func(t *testing.T) {
		remotes := []Remote{
			{Name: "a", URL: "https://github.com/a/osbuild.git"},
			{Name: "b", URL: "https://github.com/b/osbuild.git"},
			{Name: "origin", URL: "https://github.com/osbuild/osbuild.git"},
		}
		assert.Equal(t, "", GuessPushRemote("osbuild", remotes))
	})

	t.Run("only upstream configured", func(t *testing.T) {
		remotes := []Remote{
			{Name: "origin", URL: "https://github.com/osbuild/osbuild.git"},
		}
		assert.Equal(t, "", GuessPushRemote("osbuild", remotes))
	})
}

func TestSanityChecks(t *testing.T) {
	t.Run("not a git repository", func(t *testing.T) {
		runner := &shell.MockRunner{Outputs: map[string]string{
			"git rev-parse --is-inside-work-tree": "fatal: not a git repository",
		}}
		prober := New(runner)

		_, err := prober.SanityChecks(context.Background(), "osbuild")

		require.Error(t, err)
		var precondition *ErrPrecondition
		assert.ErrorAs(t, err, &precondition)
	})

	t.Run("wrong branch", func(t *testing.T) {
		runner := &shell.MockRunner{Outputs: map[string]string{
			"git rev-parse --is-inside-work-tree": "true",
			"git rev-parse --abbrev-ref HEAD":     "feature-xyz",
		}}
		prober := New(runner)

		_, err := prober.SanityChecks(context.Background(), "osbuild")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "feature-xyz")
	})

	t.Run("clean main branch", func(t *testing.T) {
		runner := &shell.MockRunner{Outputs: map[string]string{
			"git rev-parse --is-inside-work-tree": "true",
			"git rev-parse --abbrev-ref HEAD":     "main",
		}}
		prober := New(runner)

		branch, err := prober.SanityChecks(context.Background(), "osbuild")

		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("release branch is advisory", func(t *testing.T) {
		runner := &shell.MockRunner{Outputs: map[string]string{
			"git rev-parse --is-inside-work-tree": "true",
			"git rev-parse --abbrev-ref HEAD":     "release-42",
		}}
		prober := New(runner)

		branch, err := prober.SanityChecks(context.Background(), "osbuild")

		require.NoError(t, err)
		assert.Equal(t, "release-42", branch)
	})
}

func TestReleaseBranchExists(t *testing.T) {
	runner := &shell.MockRunner{Outputs: map[string]string{
		"git branch": "* main\n  release-42\n  some-feature",
	}}
	prober := New(runner)

	assert.True(t, prober.ReleaseBranchExists(context.Background(), "42"))
	assert.False(t, prober.ReleaseBranchExists(context.Background(), "43"))
}

func TestLatestTag(t *testing.T) {
	runner := &shell.MockRunner{Outputs: map[string]string{
		"git describe --abbrev=0": "v35",
	}}
	prober := New(runner)

	assert.Equal(t, "v35", prober.LatestTag(context.Background()))
}
