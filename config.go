package hlsl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file exists in a directory or its parents.
var ErrConfigNotFound = errors.New("hlsl config not found")

// DefaultFilePattern is the glob, relative to the workspace root, used to
// find sibling source files.
const DefaultFilePattern = "*.hlsl"

// Config represents the .hlsl.yaml configuration file and the "hlsl"
// section of editor settings.
type Config struct {
	Suggest SuggestConfig `yaml:"suggest"`

	// Files is the glob of workspace files scanned for user functions.
	// Supports ** (e.g. "**/*.hlsl").
	Files string `yaml:"files,omitempty"`

	Workspace WorkspaceConfig `yaml:"workspace,omitempty"`
}

// SuggestConfig controls completion.
type SuggestConfig struct {
	// Basic enables completion. Nil means unset (enabled).
	Basic *bool `yaml:"basic,omitempty"`
}

// WorkspaceConfig controls workspace scanning.
type WorkspaceConfig struct {
	// MaxParallelReads bounds concurrent file reads. Zero means unbounded.
	MaxParallelReads int `yaml:"maxParallelReads,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".hlsl.yaml", ".hlsl.yml", "hlsl.yaml", "hlsl.yml"}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{Files: DefaultFilePattern}
}

// SuggestEnabled reports the effective value of suggest.basic.
func (c *Config) SuggestEnabled() bool {
	if c == nil || c.Suggest.Basic == nil {
		return true
	}

	return *c.Suggest.Basic
}

// FilePattern returns the effective workspace glob.
func (c *Config) FilePattern() string {
	if c == nil || c.Files == "" {
		return DefaultFilePattern
	}

	return c.Files
}

// ParallelReads returns the bound on concurrent workspace reads, 0 for none.
func (c *Config) ParallelReads() int {
	if c == nil {
		return 0
	}

	return c.Workspace.MaxParallelReads
}

// LoadConfig finds and loads the nearest .hlsl.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Merge returns a copy of c overlaid with editor settings.
//
// settings is the decoded JSON value sent by the client. Both
// {"hlsl": {...}} and the bare section are accepted, and dotted keys such
// as "suggest.basic" are expanded. Keys that are absent keep their value.
func (c *Config) Merge(settings any) (*Config, error) {
	merged := DefaultConfig()
	if c != nil {
		*merged = *c

		// yaml.v3 decodes through existing pointers; don't write into c.
		if c.Suggest.Basic != nil {
			basic := *c.Suggest.Basic
			merged.Suggest.Basic = &basic
		}
	}

	section, ok := settings.(map[string]any)
	if !ok {
		return merged, nil
	}

	if inner, ok := section["hlsl"].(map[string]any); ok {
		section = inner
	}

	// JSON is a subset of YAML, so re-encoding lets yaml.v3 apply the
	// struct tags to the client's settings.
	data, err := yaml.Marshal(expandDottedKeys(section))
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	err = yaml.Unmarshal(data, merged)
	if err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	return merged, nil
}

// expandDottedKeys turns {"suggest.basic": false} into {"suggest": {"basic": false}}.
func expandDottedKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))

	for key, value := range in {
		if nested, ok := value.(map[string]any); ok {
			value = expandDottedKeys(nested)
		}

		parts := strings.Split(key, ".")
		m := out

		for _, part := range parts[:len(parts)-1] {
			next, ok := m[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[part] = next
			}

			m = next
		}

		last := parts[len(parts)-1]
		if existing, ok := m[last].(map[string]any); ok {
			if incoming, ok := value.(map[string]any); ok {
				for k, v := range incoming {
					existing[k] = v
				}

				continue
			}
		}

		m[last] = value
	}

	return out
}
