package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. FILES_TO_PROMPT_OUTPUT.
const EnvPrefix = "FILES_TO_PROMPT_"

// envConfig holds the settings that can come from the environment.
// Pointers distinguish "unset" from false.
type envConfig struct {
	Output          string `koanf:"output"`
	Format          string `koanf:"format"`
	IncludeHidden   *bool  `koanf:"include_hidden"`
	IgnoreGitignore *bool  `koanf:"ignore_gitignore"`
	ScopedRules     *bool  `koanf:"scoped_rules"`
}

// ApplyEnv overrides cfg with FILES_TO_PROMPT_* environment variables.
// Variables map to keys by dropping the prefix and lowercasing:
// FILES_TO_PROMPT_INCLUDE_HIDDEN=true sets include_hidden.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, env.Provider(EnvPrefix, ".", envKey))
}

// envKey turns FILES_TO_PROMPT_INCLUDE_HIDDEN into include_hidden.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func applyEnv(cfg *Config, provider koanf.Provider) error {
	k := koanf.New(".")

	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	var overrides envConfig
	if err := k.Unmarshal("", &overrides); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if overrides.Output != "" {
		cfg.Output = overrides.Output
	}
	if overrides.Format != "" {
		cfg.Format = overrides.Format
	}
	if overrides.IncludeHidden != nil {
		cfg.IncludeHidden = *overrides.IncludeHidden
	}
	if overrides.IgnoreGitignore != nil {
		cfg.IgnoreGitignore = *overrides.IgnoreGitignore
	}
	if overrides.ScopedRules != nil {
		cfg.ScopedRules = *overrides.ScopedRules
	}

	return nil
}
