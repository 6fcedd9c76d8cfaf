package cmd

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/leonardomso/files-to-prompt/internal/config"
	"github.com/leonardomso/files-to-prompt/internal/filter"
	"github.com/leonardomso/files-to-prompt/internal/output"
	"github.com/leonardomso/files-to-prompt/internal/rules"
	"github.com/leonardomso/files-to-prompt/internal/scanner"
	"github.com/leonardomso/files-to-prompt/internal/ui"
)

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	path     string
	noConfig bool
}

// LoadConfig finds the config file from dir upward and applies environment
// overrides, unless noConfig is true.
// Returns an error if the config file exists but is invalid.
func LoadConfig(dir string, noConfig bool) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	cfg, path, err := config.FindAndLoad(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &LoadedConfig{cfg: cfg, path: path}, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// Path returns the config file that was loaded, or "" if none was.
func (lc *LoadedConfig) Path() string {
	return lc.path
}

// GetIncludeHidden returns the effective include-hidden setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetIncludeHidden(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.IncludeHidden
}

// GetIgnoreGitignore returns the effective ignore-gitignore setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetIgnoreGitignore(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.IgnoreGitignore
}

// GetScopedRules returns the effective scoped-rules setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetScopedRules(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.ScopedRules
}

// GetIgnorePatterns returns config patterns followed by CLI patterns.
func (lc *LoadedConfig) GetIgnorePatterns(cliPatterns []string) []string {
	patterns := append([]string{}, lc.cfg.Ignore...)
	return append(patterns, cliPatterns...)
}

// GetIgnoreFiles returns the ignore file names to read in each directory.
func (lc *LoadedConfig) GetIgnoreFiles() []string {
	if len(lc.cfg.IgnoreFiles) > 0 {
		return lc.cfg.IgnoreFiles
	}
	return []string{rules.DefaultIgnoreFileName}
}

// GetOutput returns the effective output file name.
// An explicitly set CLI value wins, then config, then the default.
func (lc *LoadedConfig) GetOutput(cliValue string, cliSet bool) string {
	if cliSet && cliValue != "" {
		return cliValue
	}
	if lc.cfg.Output != "" {
		return lc.cfg.Output
	}
	if cliValue != "" {
		return cliValue
	}
	return output.DefaultFileName
}

// GetFormat returns the effective output format.
// CLI overrides config if set.
func (lc *LoadedConfig) GetFormat(cliValue string) output.Format {
	if cliValue != "" {
		return output.Format(cliValue)
	}
	if lc.cfg.Format != "" {
		return output.Format(lc.cfg.Format)
	}
	return output.FormatText
}

// NewRuleSet returns the rule set for one invocation.
// Rules accumulate across the whole run unless scoped is set.
func NewRuleSet(scoped bool) rules.RuleSet {
	if scoped {
		return rules.NewScoped()
	}
	return rules.NewAccumulating()
}

// ScanOptions holds everything needed to build a scanner for one invocation.
type ScanOptions struct {
	IncludeHidden   bool
	IgnoreGitignore bool
	ScopedRules     bool
	Patterns        []string
	IgnoreFiles     []string
	Skip            []string
}

// BuildScanner creates the filter, rule set and scanner for one invocation.
func BuildScanner(opts ScanOptions, log *zap.Logger) (*scanner.Scanner, *filter.Filter) {
	entryFilter := filter.New(filter.Config{Patterns: opts.Patterns})

	sc := scanner.New(
		scanner.Options{
			IncludeHidden:   opts.IncludeHidden,
			IgnoreGitignore: opts.IgnoreGitignore,
			Skip:            opts.Skip,
		},
		NewRuleSet(opts.ScopedRules),
		entryFilter,
		rules.NewLoader(opts.IgnoreFiles...),
		log,
	)

	return sc, entryFilter
}

// printExcluded writes the entries excluded by rules and patterns.
func printExcluded(w io.Writer, f *filter.Filter) {
	excluded := f.Excluded()
	if len(excluded) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", ui.Title(fmt.Sprintf("=== Excluded (%d) ===", len(excluded))))
	for _, ex := range excluded {
		kind := "file"
		if ex.IsDir {
			kind = "dir"
		}
		fmt.Fprintf(w, "  [EXCLUDED] %s (%s)\n", ex.Path, kind)
		fmt.Fprintf(w, "             %s\n", ui.Muted(fmt.Sprintf("Reason: %s %q", ex.Type, ex.Rule)))
	}
}
