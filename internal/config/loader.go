package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name searched for when no explicit
// configuration path is given.
const DefaultConfigFile = ".docscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
// Callers decide how hard to fail: a missing explicit -c path is an error,
// a missing default-location file is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads and parses a YAML configuration file holding
// scan defaults and per-root overrides.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	// An empty file unmarshals to nil maps; keep lookups safe.
	if cf.Roots == nil {
		cf.Roots = make(map[string]PathConfig)
	}
	return &cf, nil
}

// FindConfigFile resolves the configuration file location. An explicit
// configPath wins outright; otherwise the current directory is checked
// before the user's home directory. It returns "" when nothing exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 2)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
