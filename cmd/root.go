package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonardomso/files-to-prompt/internal/scanner"
	"github.com/leonardomso/files-to-prompt/internal/ui"
)

// version is set by main.go via SetVersion.
var version = "dev"

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "files-to-prompt [PATHS...]",
	Short:   "Concatenate a codebase's text files into one prompt-ready file",
	Version: version,
	Long: `Takes one or more paths to files or directories and outputs every file,
recursively, each one preceded with its filename like this:

  path/to/file.py
  ---
  Contents of file.py goes here

  ---
  path/to/file2.py
  ---
  ...

Files and directories starting with "." are skipped unless --include-hidden
is set. Rules from .gitignore files are applied as the walk descends unless
--ignore-gitignore is set. Files that are not valid UTF-8 are skipped with a
warning.

Examples:
  files-to-prompt ./src                        # Write ./src into output.txt
  files-to-prompt main.go lib --output ctx.txt # Several roots, one file
  files-to-prompt . --ignore build --ignore "*.lock"
  files-to-prompt . --include-hidden --ignore-gitignore
  files-to-prompt . --format=markdown          # Fenced code blocks
  files-to-prompt . --format=xml               # <documents> wrapper

Config file (.files-to-prompt.yaml or .files-to-prompt.toml):
  ignore: [build, "*.min.js"]
  include_hidden: false
  output: output.txt`,
	Args:          validateArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPrompt,
}

// UsageError is a command-line mistake. It exits with status 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func init() {
	// Unknown flags and bad flag values are usage errors too.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
}

// validateArgs requires at least one path.
func validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error("Error: "+errorMessage(err)))
		os.Exit(exitCode(err)) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}

// errorMessage renders an error returned by the command for the terminal.
func errorMessage(err error) string {
	var missing *scanner.NotExistError
	if errors.As(err, &missing) {
		return "Path does not exist: " + missing.Path
	}
	return err.Error()
}

// exitCode maps an error returned by the command to a process exit status.
// A missing root is a usage error.
func exitCode(err error) int {
	var usageErr *UsageError
	var missing *scanner.NotExistError
	if errors.As(err, &usageErr) || errors.As(err, &missing) {
		return exitUsage
	}
	return exitFailure
}
