package news

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NewsDir is the directory holding per-release note snippets.
const NewsDir = "docs/news"

// UnreleasedSummaries reads every markdown snippet under docs/news/<version>
// and rewrites its heading lines ("# ...") into bullet lines ("  * ...").
// Files are processed in directory-listing order.
func UnreleasedSummaries(version string) (string, error) {
	dir := filepath.Join(NewsDir, version)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading news directory %s: %w", dir, err)
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "# ") {
				b.WriteString("  * " + strings.TrimPrefix(line, "# ") + "\n")
			}
		}
	}
	return b.String(), nil
}

// MoveUnreleased moves every staged snippet from docs/news/unreleased into
// docs/news/<version>, leaving the .gitkeep placeholder behind. The target
// directory is created when missing.
func MoveUnreleased(version string) error {
	src := filepath.Join(NewsDir, "unreleased")
	target := filepath.Join(NewsDir, version)

	if err := os.MkdirAll(target, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	for _, entry := range entries {
		if entry.Name() == ".gitkeep" {
			continue
		}
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(target, entry.Name())
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("moving %s: %w", from, err)
		}
	}
	return nil
}
