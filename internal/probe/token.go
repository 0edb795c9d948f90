package probe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/osbuild/maintainer-tools/internal/ui"
)

// packitConfig mirrors the part of ~/.config/packit.yaml holding the
// GitHub token.
type packitConfig struct {
	Authentication map[string]struct {
		Token string `yaml:"token"`
	} `yaml:"authentication"`
}

// tokenProvider is one source in the ordered token fallback chain.
// The first provider returning a non-empty token wins.
type tokenProvider func() (string, error)

// DiscoverToken looks for a GitHub token, trying $GITHUB_TOKEN first and
// the packit credentials file second. A missing or unparseable packit file
// is silently ignored; any other failure propagates.
func DiscoverToken() (string, error) {
	providers := []tokenProvider{tokenFromEnv, tokenFromPackit}
	for _, provider := range providers {
		token, err := provider()
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}

func tokenFromEnv() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token != "" {
		ui.Infof("Using token from '$GITHUB_TOKEN'")
	}
	return token, nil
}

func tokenFromPackit() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return tokenFromPackitFile(filepath.Join(home, ".config", "packit.yaml"))
}

func tokenFromPackitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	var cfg packitConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", nil
	}

	token := cfg.Authentication["github.com"].Token
	if token != "" {
		ui.Infof("Using token from '%s'", path)
	}
	return token, nil
}
