// Package filter decides which walked entries are excluded by ignore rules and ignore patterns.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/leonardomso/files-to-prompt/internal/rules"
)

// Reason types recorded for excluded entries.
const (
	ReasonGitignore = "gitignore" // basename matched an ignore-file rule
	ReasonName      = "name"      // directory basename equals an ignore pattern
	ReasonPattern   = "pattern"   // full path matched an ignore pattern
)

// Entry is a filesystem node met during a walk.
type Entry struct {
	Path  string // path as built by the walk, starting with the root as given
	Name  string // basename
	IsDir bool
}

// NewEntry builds an Entry from a path, taking the basename from it.
func NewEntry(path string, isDir bool) Entry {
	return Entry{Path: path, Name: filepath.Base(path), IsDir: isDir}
}

// ExcludeReason describes why an entry was excluded.
type ExcludeReason struct {
	Type  string // ReasonGitignore, ReasonName or ReasonPattern
	Rule  string // The rule or pattern that matched
	Path  string // The excluded entry
	IsDir bool
}

// Filter classifies entries against ignore rules and explicit ignore patterns.
type Filter struct {
	// patterns are the explicit ignore patterns, in the order given.
	patterns []string

	// Track excluded entries for reporting
	excluded []ExcludeReason
}

// Config holds filter configuration.
type Config struct {
	Patterns []string // Explicit ignore patterns (e.g., "build", "*.min.js")
}

// New creates a new Filter from the given configuration.
// Empty patterns are dropped; everything else is kept verbatim.
func New(cfg Config) *Filter {
	f := &Filter{
		patterns: make([]string, 0, len(cfg.Patterns)),
		excluded: []ExcludeReason{},
	}

	for _, p := range cfg.Patterns {
		if p == "" {
			continue
		}
		compile(p)
		f.patterns = append(f.patterns, p)
	}

	return f
}

// ShouldExclude reports whether entry is excluded by the active ignore rules or the
// explicit patterns. If it is, the reason is recorded.
//
// Ignore rules match the basename only; a directory is also tried as "name/" so that
// rules ending in a slash select directories. An explicit pattern excludes a directory
// whose basename equals it exactly, and any entry whose full path matches it as a glob.
func (f *Filter) ShouldExclude(entry Entry, active []rules.Rule) bool {
	if f == nil {
		return false
	}

	reason, ok := f.match(entry, active)
	if !ok {
		return false
	}

	f.excluded = append(f.excluded, reason)
	return true
}

// Check is ShouldExclude without recording anything.
func (f *Filter) Check(entry Entry, active []rules.Rule) (ExcludeReason, bool) {
	if f == nil {
		return ExcludeReason{}, false
	}
	return f.match(entry, active)
}

func (f *Filter) match(entry Entry, active []rules.Rule) (ExcludeReason, bool) {
	if rule, ok := matchesRule(entry, active); ok {
		return ExcludeReason{Type: ReasonGitignore, Rule: rule, Path: entry.Path, IsDir: entry.IsDir}, true
	}

	for _, p := range f.patterns {
		if entry.IsDir && entry.Name == p {
			return ExcludeReason{Type: ReasonName, Rule: p, Path: entry.Path, IsDir: true}, true
		}
		if Match(p, entry.Path) {
			return ExcludeReason{Type: ReasonPattern, Rule: p, Path: entry.Path, IsDir: entry.IsDir}, true
		}
	}

	return ExcludeReason{}, false
}

// matchesRule checks the entry's basename against every ignore rule.
func matchesRule(entry Entry, active []rules.Rule) (string, bool) {
	for _, r := range active {
		pattern := string(r)
		if Match(pattern, entry.Name) {
			return pattern, true
		}
		if entry.IsDir && Match(pattern, entry.Name+"/") {
			return pattern, true
		}
	}
	return "", false
}

// IsHidden reports whether a basename follows the dot-file convention.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ExcludedCount returns the number of entries that were excluded.
func (f *Filter) ExcludedCount() int {
	if f == nil {
		return 0
	}
	return len(f.excluded)
}

// Excluded returns all excluded entries with their reasons.
func (f *Filter) Excluded() []ExcludeReason {
	if f == nil {
		return nil
	}
	return f.excluded
}

// Reset clears the list of excluded entries.
// Useful if reusing a filter for multiple walks.
func (f *Filter) Reset() {
	if f != nil {
		f.excluded = f.excluded[:0]
	}
}

// HasRules returns true if the filter has explicit patterns defined.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.patterns) > 0
}

// Patterns returns the explicit ignore patterns.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return f.patterns
}
