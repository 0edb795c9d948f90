package news

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestUnreleasedSummaries(t *testing.T) {
	chdirTemp(t)

	dir := filepath.Join(NewsDir, "36")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feature.md"),
		[]byte("# Add ostree support\n\nLong description here.\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fix.md"),
		[]byte("# Fix the frobnicator\n"), 0644))

	summaries, err := UnreleasedSummaries("36")

	require.NoError(t, err)
	assert.Contains(t, summaries, "  * Add ostree support\n")
	assert.Contains(t, summaries, "  * Fix the frobnicator\n")
	assert.NotContains(t, summaries, "Long description")
}

func TestUnreleasedSummariesMissingDir(t *testing.T) {
	chdirTemp(t)

	_, err := UnreleasedSummaries("99")
	assert.Error(t, err)
}

func TestMoveUnreleased(t *testing.T) {
	chdirTemp(t)

	src := filepath.Join(NewsDir, "unreleased")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "note.md"), []byte("# A note\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".gitkeep"), nil, 0644))

	require.NoError(t, MoveUnreleased("36"))

	assert.FileExists(t, filepath.Join(NewsDir, "36", "note.md"))
	assert.FileExists(t, filepath.Join(src, ".gitkeep"))
	assert.NoFileExists(t, filepath.Join(src, "note.md"))
}
