// Package rules loads ignore-file patterns and keeps the set of rules active during a walk.
package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultIgnoreFileName is the ignore file looked up in every visited directory.
const DefaultIgnoreFileName = ".gitignore"

// Rule is a single glob pattern taken from an ignore file.
type Rule string

// String returns the pattern text.
func (r Rule) String() string {
	return string(r)
}

// LoadError reports an ignore file that exists but could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("reading ignore file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads ignore files from directories.
type Loader struct {
	// FileNames are the ignore files read from each directory, in order.
	// Rules from every file found are concatenated.
	FileNames []string
}

// NewLoader creates a Loader for the given ignore file names.
// With no names it falls back to DefaultIgnoreFileName.
func NewLoader(fileNames ...string) *Loader {
	if len(fileNames) == 0 {
		fileNames = []string{DefaultIgnoreFileName}
	}
	return &Loader{FileNames: fileNames}
}

// Load returns the rules of the default ignore file directly inside dir.
func Load(dir string) ([]Rule, error) {
	return NewLoader().Load(dir)
}

// Load reads the ignore files directly inside dir and returns their rules in file order.
// A missing ignore file is not an error and contributes no rules.
// Rules read before a failure are returned alongside the *LoadError.
func (l *Loader) Load(dir string) ([]Rule, error) {
	var loaded []Rule

	for _, name := range l.FileNames {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, &LoadError{Path: path, Err: err}
		}
		// A directory named like the ignore file is not an ignore file.
		if info.IsDir() {
			continue
		}

		fileRules, err := loadFile(path)
		if err != nil {
			return loaded, &LoadError{Path: path, Err: err}
		}
		loaded = append(loaded, fileRules...)
	}

	return loaded, nil
}

func loadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseRules(f)
}

// ParseRules reads ignore-file content line by line. "\n", "\r\n" and a lone "\r"
// all end a line.
// Lines are trimmed; blank lines and lines starting with # are skipped.
// Patterns are not validated or deduplicated.
func ParseRules(r io.Reader) ([]Rule, error) {
	var parsed []Rule

	reader := bufio.NewReader(r)
	for {
		chunk, err := reader.ReadString('\n')
		for _, line := range strings.Split(chunk, "\r") {
			if rule, ok := parseLine(line); ok {
				parsed = append(parsed, rule)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return parsed, nil
			}
			return parsed, err
		}
	}
}

// parseLine turns one raw line into a rule.
// The comment check runs on the untrimmed line, so an indented "#" survives as a pattern.
func parseLine(line string) (Rule, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return Rule(trimmed), true
}
