package cmd

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leonardomso/files-to-prompt/internal/logging"
	"github.com/leonardomso/files-to-prompt/internal/output"
	"github.com/leonardomso/files-to-prompt/internal/scanner"
	"github.com/leonardomso/files-to-prompt/internal/stats"
	"github.com/leonardomso/files-to-prompt/internal/ui"
)

// Flag variables for the root command.
var (
	includeHidden   bool
	ignoreGitignore bool
	ignorePatterns  []string
	outputFile      string
	outputFormat    string

	// Rule flags.
	scopedRules bool
	noConfig    bool

	// Diagnostics flags.
	verbose     bool
	showStats   bool
	showIgnored bool
)

func init() {
	flags := rootCmd.Flags()

	flags.BoolVar(&includeHidden, "include-hidden", false,
		"Include files and folders starting with .")
	flags.BoolVar(&ignoreGitignore, "ignore-gitignore", false,
		"Ignore .gitignore files and include all files")
	// StringArray, not StringSlice: a comma is a valid glob character.
	flags.StringArrayVar(&ignorePatterns, "ignore", nil,
		"Directory name or path glob to ignore, no matter where it is (can be repeated)")
	flags.StringVar(&outputFile, "output", output.DefaultFileName,
		"Output file to write the results to, relative to the current directory")
	flags.StringVarP(&outputFormat, "format", "f", "",
		"Output layout: "+strings.Join(output.ValidFormats(), ", ")+" (default text)")

	flags.BoolVar(&scopedRules, "scoped-rules", false,
		"Apply each .gitignore only below its own directory instead of to the rest of the run")
	flags.BoolVar(&noConfig, "no-config", false,
		"Skip loading .files-to-prompt.yaml / .files-to-prompt.toml")

	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Log rule loading and exclusions to stderr")
	flags.BoolVar(&showStats, "stats", false,
		"Print run statistics to stderr")
	flags.BoolVar(&showIgnored, "show-ignored", false,
		"List entries excluded by ignore rules or patterns on stderr")
}

// promptOptions is the resolved input of one invocation.
type promptOptions struct {
	Roots     []string
	Dir       string // working directory the output name is resolved against
	Output    string
	OutputSet bool
	Format    string

	IncludeHidden   bool
	IgnoreGitignore bool
	ScopedRules     bool
	Patterns        []string
	NoConfig        bool

	Verbose     bool
	ShowStats   bool
	ShowIgnored bool
}

// runPrompt is the main entry point for the root command.
func runPrompt(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	return runWithOptions(promptOptions{
		Roots:           args,
		Dir:             cwd,
		Output:          outputFile,
		OutputSet:       cmd.Flags().Changed("output"),
		Format:          outputFormat,
		IncludeHidden:   includeHidden,
		IgnoreGitignore: ignoreGitignore,
		ScopedRules:     scopedRules,
		Patterns:        ignorePatterns,
		NoConfig:        noConfig,
		Verbose:         verbose,
		ShowStats:       showStats,
		ShowIgnored:     showIgnored,
	}, cmd.ErrOrStderr())
}

// runWithOptions validates the roots, opens the output once and streams every
// walk result into it. Only usage, config and output errors are returned;
// unreadable or undecodable files are reported on stderr and skipped.
func runWithOptions(opts promptOptions, stderr io.Writer) error {
	// All roots are checked before anything is written.
	if err := scanner.ValidateRoots(opts.Roots); err != nil {
		return err
	}

	lc, err := LoadConfig(opts.Dir, opts.NoConfig)
	if err != nil {
		return err
	}

	format := lc.GetFormat(opts.Format)
	if !output.IsValidFormat(string(format)) {
		return &UsageError{Err: fmt.Errorf("invalid format %q; valid formats: %s",
			format, strings.Join(output.ValidFormats(), ", "))}
	}

	log := logging.New(opts.Verbose, stderr)
	defer func() { _ = log.Sync() }()
	if lc.Path() != "" {
		log.Debug("loaded config", zap.String("path", lc.Path()))
	}

	outPath := output.ResolvePath(opts.Dir, lc.GetOutput(opts.Output, opts.OutputSet))
	out, err := output.Open(outPath, format)
	if err != nil {
		return err
	}

	sc, entryFilter := BuildScanner(ScanOptions{
		IncludeHidden:   lc.GetIncludeHidden(opts.IncludeHidden),
		IgnoreGitignore: lc.GetIgnoreGitignore(opts.IgnoreGitignore),
		ScopedRules:     lc.GetScopedRules(opts.ScopedRules),
		Patterns:        lc.GetIgnorePatterns(opts.Patterns),
		IgnoreFiles:     lc.GetIgnoreFiles(),
		Skip:            []string{outPath},
	}, log)

	perf := stats.New()
	perf.StartWalk(len(opts.Roots))

	written, writeErr := emit(sc.Run(opts.Roots), out, stderr)

	closeErr := out.Close()
	perf.EndWalk()

	counters := sc.Counters()
	perf.Directories = counters.Directories
	perf.FilesWritten = written
	perf.DecodeErrors = counters.DecodeErrors
	perf.ReadErrors = counters.ReadErrors
	perf.FileReadErrors = counters.FileReadErrors
	perf.Hidden = counters.Hidden
	perf.RulesLoaded = counters.RulesLoaded
	perf.Excluded = entryFilter.ExcludedCount()
	perf.BytesWritten = out.BytesWritten()

	log.Debug("walk finished", zap.Any("stats", perf.ToMap()))

	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return closeErr
	}

	if opts.ShowIgnored {
		printExcluded(stderr, entryFilter)
	}
	if opts.ShowStats {
		fmt.Fprint(stderr, perf.String())
		fmt.Fprintln(stderr, ui.Success(fmt.Sprintf("Wrote %d files to %s", written, out.Path())))
	}

	return nil
}

// emit writes every content result to out and reports skips on stderr.
// It stops at the first write error.
func emit(results iter.Seq[scanner.Result], out output.Writer, stderr io.Writer) (int, error) {
	written := 0
	for r := range results {
		switch r.Kind {
		case scanner.KindContent:
			if err := out.WriteFile(r.Path, r.Content); err != nil {
				return written, fmt.Errorf("writing output file: %w", err)
			}
			written++
		case scanner.KindDecodeError:
			fmt.Fprintln(stderr, ui.Warning(fmt.Sprintf("Warning: Skipping file %s due to invalid UTF-8", r.Path)))
		case scanner.KindReadError:
			fmt.Fprintln(stderr, ui.Warning(fmt.Sprintf("Warning: Skipping %s: %v", r.Path, r.Err)))
		}
	}
	return written, nil
}
