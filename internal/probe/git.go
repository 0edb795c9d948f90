package probe

import (
	"sort"

	git "github.com/go-git/go-git/v5"
)

// Remote is a configured git remote, name plus fetch URL.
type Remote struct {
	Name string
	URL  string
}

// Remotes enumerates the remotes of the repository at path ("." for the
// working directory), sorted by name to match the output order of
// `git remote`, which is what the push-remote guess depends on.
func Remotes(path string) ([]Remote, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}

	configured, err := repo.Remotes()
	if err != nil {
		return nil, err
	}

	remotes := make([]Remote, 0, len(configured))
	for _, remote := range configured {
		cfg := remote.Config()
		url := ""
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}
		remotes = append(remotes, Remote{Name: cfg.Name, URL: url})
	}
	sort.Slice(remotes, func(i, j int) bool { return remotes[i].Name < remotes[j].Name })
	return remotes, nil
}
