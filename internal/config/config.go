// Package config handles loading configuration from .files-to-prompt.yaml or .toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order.
const (
	DefaultConfigFileName = ".files-to-prompt.yaml"
	TOMLConfigFileName    = ".files-to-prompt.toml"
)

// ConfigFileNames returns every file name FindAndLoad looks for in a directory.
func ConfigFileNames() []string {
	return []string{DefaultConfigFileName, TOMLConfigFileName}
}

// Config represents the complete configuration structure.
type Config struct {
	// Ignore are explicit ignore patterns, added to any --ignore flags.
	// Each one excludes directories with exactly that name and any path matching it as a glob.
	Ignore []string `yaml:"ignore" toml:"ignore" koanf:"ignore"`

	// IgnoreFiles replaces the ignore file names read from every directory.
	// Defaults to [".gitignore"].
	IgnoreFiles []string `yaml:"ignore_files" toml:"ignore_files" koanf:"ignore_files"`

	// IncludeHidden keeps dot-files and dot-directories.
	IncludeHidden bool `yaml:"include_hidden" toml:"include_hidden" koanf:"include_hidden"`

	// IgnoreGitignore disables ignore file processing.
	IgnoreGitignore bool `yaml:"ignore_gitignore" toml:"ignore_gitignore" koanf:"ignore_gitignore"`

	// ScopedRules limits ignore rules to the subtree that declared them.
	ScopedRules bool `yaml:"scoped_rules" toml:"scoped_rules" koanf:"scoped_rules"`

	// Output is the destination file name.
	Output string `yaml:"output" toml:"output" koanf:"output"`

	// Format is the output layout: text, markdown or xml.
	Format string `yaml:"format" toml:"format" koanf:"format"`
}

// validFormats mirrors output.ValidFormats; config must not import output.
var validFormats = []string{"text", "markdown", "xml"}

// LoadFrom reads configuration from a specific path. The parser is chosen by
// extension: .toml is TOML, anything else YAML.
// Returns an empty config if the file doesn't exist (not an error).
// Returns an error only if the file exists but cannot be parsed.
func LoadFrom(path string) (*Config, error) {
	// Start with empty config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		// File not found is not an error - just return empty config
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
// Within one directory the YAML file wins over the TOML file.
// The returned path is empty when no file was found.
func FindAndLoad(startDir string) (*Config, string, error) {
	dir := startDir

	for {
		for _, name := range ConfigFileNames() {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				cfg, err := LoadFrom(configPath)
				return cfg, configPath, err
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return &Config{}, "", nil
		}
		dir = parent
	}
}

// IsEmpty returns true if the config sets nothing.
func (c *Config) IsEmpty() bool {
	return len(c.Ignore) == 0 &&
		len(c.IgnoreFiles) == 0 &&
		!c.IncludeHidden &&
		!c.IgnoreGitignore &&
		!c.ScopedRules &&
		c.Output == "" &&
		c.Format == ""
}

// Validate checks values that would otherwise fail later in the run.
func (c *Config) Validate() error {
	if c.Format != "" {
		valid := false
		for _, f := range validFormats {
			if strings.EqualFold(c.Format, f) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid format %q; valid formats: %s",
				c.Format, strings.Join(validFormats, ", "))
		}
	}

	for _, name := range c.IgnoreFiles {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid ignore file name %q", name)
		}
	}

	return nil
}
