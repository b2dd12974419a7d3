package config

import "path/filepath"

// PathConfig holds configuration overrides for a single documentation
// root. This allows customizing scan behavior per doc tree when several
// trees with different conventions share one repository.
type PathConfig struct {
	// Extensions overrides the recognized page file extensions for this
	// root. If empty, the global extensions are used.
	Extensions []string `yaml:"extensions,omitempty"`

	// Languages overrides the snippet language allow-list for this root.
	// If empty, the global allow-list (or none) applies.
	Languages []string `yaml:"languages,omitempty"`

	// Workers overrides the per-page check concurrency for this root.
	// If zero, the global worker count is used.
	Workers int `yaml:"workers,omitempty"`
}

// File represents the structure of the .docscan configuration file.
type File struct {
	// Roots maps documentation root paths to their configurations.
	// Keys are matched against the command-line roots after
	// filepath.Clean on both sides, so "./docs" and "docs" refer to
	// the same root.
	Roots map[string]PathConfig `yaml:"roots,omitempty"`

	// Defaults contains default configuration applied to all roots
	// unless overridden in the root-specific configuration.
	Defaults PathConfig `yaml:"defaults,omitempty"`
}

// GetPathConfig returns the configuration for a specific documentation
// root. It merges the root-specific configuration with defaults.
// The root and the map keys are compared after filepath.Clean, so a
// root scanned as "docs" still picks up an override keyed "./docs".
func (cf *File) GetPathConfig(root string) PathConfig {
	// Start with defaults
	result := cf.Defaults

	pathConfig, ok := cf.Roots[root]
	if !ok {
		cleaned := filepath.Clean(root)
		for key, pc := range cf.Roots {
			if filepath.Clean(key) == cleaned {
				pathConfig, ok = pc, true
				break
			}
		}
	}

	if ok {
		if len(pathConfig.Extensions) > 0 {
			result.Extensions = pathConfig.Extensions
		}
		if len(pathConfig.Languages) > 0 {
			result.Languages = pathConfig.Languages
		}
		if pathConfig.Workers != 0 {
			result.Workers = pathConfig.Workers
		}
	}

	return result
}
