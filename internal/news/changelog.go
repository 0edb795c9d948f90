package news

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/osbuild/maintainer-tools/internal/shell"
)

// NewsFile is the changelog this tool maintains.
const NewsFile = "NEWS.md"

// ErrNewsMissing reports that the changelog file does not exist. The
// changelog is only ever prepended to; a missing file is a precondition
// failure, never an invitation to create one.
var ErrNewsMissing = errors.New("changelog file does not exist")

// Contributors collects the commit authors since the given tag, sorted
// and de-duplicated, joined with ", ".
func Contributors(ctx context.Context, runner shell.Runner, sinceTag string) string {
	out := runner.Run(ctx, "git", "log", `--format="%an"`, sinceTag+"..HEAD")

	seen := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		name := strings.ReplaceAll(line, `"`, "")
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// PrependChangelog writes a new section for version to the top of the
// changelog at path, keeping the previous content byte-for-byte intact
// below it. It fails without touching the file when the changelog is
// missing.
func PrependChangelog(path, version, summaries, contributors string, date time.Time) error {
	previous, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNewsMissing, path)
		}
		return err
	}

	section := fmt.Sprintf("## CHANGES WITH %s:\n\n%s\nContributions from: %s\n\n— Location, %s\n\n",
		version, summaries, contributors, date.Format("2006-01-02"))

	return os.WriteFile(path, append([]byte(section), previous...), 0644)
}

// BumpVersion rewrites the "Version:" field of a spec-style file from
// oldVersion to newVersion in place. Only the numeric token after the
// field name changes; the rest of the file is left alone.
func BumpVersion(filename, oldVersion, newVersion string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	pattern := regexp.MustCompile(`(Version:\s+)` + regexp.QuoteMeta(oldVersion) + `\b`)
	updated := pattern.ReplaceAll(content, []byte("${1}"+newVersion))

	return os.WriteFile(filename, updated, 0644)
}
