// Package scanner walks files and directories and yields the text of every file that
// survives hidden-file, ignore-file and ignore-pattern filtering.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/leonardomso/files-to-prompt/internal/filter"
	"github.com/leonardomso/files-to-prompt/internal/rules"
)

// Kind tells what a Result carries.
type Kind int

const (
	// KindContent is a file whose bytes decoded as text.
	KindContent Kind = iota
	// KindDecodeError is a file skipped because its bytes are not valid text.
	KindDecodeError
	// KindReadError is a file, directory or ignore file that could not be read.
	KindReadError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindDecodeError:
		return "decode_error"
	case KindReadError:
		return "read_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of visiting one file.
// Nothing is produced for excluded entries or for directories that were listed fine.
type Result struct {
	Kind    Kind
	Path    string
	Content string // set for KindContent
	Err     error  // set for KindReadError
}

// NotExistError reports a root path that does not exist.
type NotExistError struct {
	Path string
}

func (e *NotExistError) Error() string {
	return "path does not exist: " + e.Path
}

func (e *NotExistError) Unwrap() error {
	return fs.ErrNotExist
}

// Options holds the walk settings for one invocation.
type Options struct {
	// IncludeHidden keeps entries whose name starts with ".".
	IncludeHidden bool

	// IgnoreGitignore disables reading ignore files.
	IgnoreGitignore bool

	// Skip lists paths that are never emitted, such as the output file.
	// Entries are compared by file identity, not by spelling.
	Skip []string
}

// Scanner walks roots while maintaining one rule set for the whole invocation.
type Scanner struct {
	opts   Options
	set    rules.RuleSet
	filter *filter.Filter
	loader *rules.Loader
	log    *zap.Logger

	skip    []os.FileInfo
	pending []Result
	stats   Counters
}

// Counters tracks what a Scanner has seen so far.
// ReadErrors covers every unreadable path; FileReadErrors only the files among them.
type Counters struct {
	Directories    int
	Files          int
	DecodeErrors   int
	ReadErrors     int
	FileReadErrors int
	Hidden         int
	RulesLoaded    int
}

// New creates a Scanner. A nil rule set means an accumulating one, a nil filter
// applies ignore rules only, a nil loader reads .gitignore and a nil logger discards
// diagnostics.
func New(opts Options, set rules.RuleSet, f *filter.Filter, loader *rules.Loader, log *zap.Logger) *Scanner {
	if set == nil {
		set = rules.NewAccumulating()
	}
	if f == nil {
		f = filter.New(filter.Config{})
	}
	if loader == nil {
		loader = rules.NewLoader()
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scanner{
		opts:   opts,
		set:    set,
		filter: f,
		loader: loader,
		log:    log,
	}

	for _, p := range opts.Skip {
		if info, err := os.Stat(p); err == nil {
			s.skip = append(s.skip, info)
		}
	}

	return s
}

// Rules returns the rule set shared by every walk of this Scanner.
func (s *Scanner) Rules() rules.RuleSet {
	return s.set
}

// Counters returns a snapshot of the walk counters.
func (s *Scanner) Counters() Counters {
	return s.stats
}

// ValidateRoots returns a *NotExistError for the first root that does not exist.
func ValidateRoots(roots []string) error {
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &NotExistError{Path: root}
			}
			return fmt.Errorf("checking %s: %w", root, err)
		}
	}
	return nil
}

// Run seeds and walks every root in order, sharing the scanner's rule set.
func (s *Scanner) Run(roots []string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for _, root := range roots {
			s.Seed(root)
			for r := range s.Walk(root) {
				if !yield(r) {
					return
				}
			}
			s.set.Leave(filepath.Dir(root))
		}
	}
}

// Seed loads the ignore rules of root's parent directory, so an ignore file next to
// the root applies to it. A bare name is seeded from the current directory.
func (s *Scanner) Seed(root string) {
	if s.opts.IgnoreGitignore {
		return
	}

	parent := filepath.Dir(root)
	s.enter(parent)
	s.log.Debug("seeded rules from root parent",
		zap.String("root", root),
		zap.String("parent", parent),
		zap.Int("active_rules", s.set.Len()),
	)
}

// Walk yields the results for one root, depth-first and pre-order.
// A file root yields a single result. For a directory, each directory's files are
// yielded before any of its subdirectories is entered.
func (s *Scanner) Walk(root string) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		if !s.flush(yield) {
			return
		}

		info, err := os.Stat(root)
		if err != nil {
			s.stats.ReadErrors++
			yield(Result{Kind: KindReadError, Path: root, Err: err})
			return
		}

		if !info.IsDir() {
			if s.skipped(info) {
				return
			}
			yield(s.readFile(root))
			return
		}

		s.walkDir(root, yield)
	}
}

// walkDir processes one directory and recurses. It returns false once the consumer
// has stopped iterating.
func (s *Scanner) walkDir(dir string, yield func(Result) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.stats.ReadErrors++
		s.log.Debug("cannot list directory", zap.String("dir", dir), zap.Error(err))
		return yield(Result{Kind: KindReadError, Path: dir, Err: err})
	}
	s.stats.Directories++

	var dirs, files []filter.Entry
	for _, e := range entries {
		if !s.opts.IncludeHidden && filter.IsHidden(e.Name()) {
			s.stats.Hidden++
			continue
		}
		entry := filter.Entry{Path: joinPath(dir, e.Name()), Name: e.Name(), IsDir: isDirEntry(dir, e)}
		if entry.IsDir {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	if !s.opts.IgnoreGitignore {
		s.enter(dir)
		if !s.flush(yield) {
			return false
		}
	}

	active := s.set.Rules()
	dirs = s.keep(dirs, active)
	files = s.keep(files, active)

	for _, f := range files {
		if s.skippedPath(f.Path) {
			continue
		}
		if !yield(s.readFile(f.Path)) {
			return false
		}
	}

	for _, d := range dirs {
		if isSymlink(d.Path) {
			// Linked directories are listed and filtered but never followed.
			continue
		}
		if !s.walkDir(d.Path, yield) {
			return false
		}
	}

	s.set.Leave(dir)
	return true
}

// enter loads the rules of dir into the rule set. A load failure is queued as a
// read error and whatever was read before it still applies.
func (s *Scanner) enter(dir string) {
	loaded, err := s.loader.Load(dir)
	if err != nil {
		s.stats.ReadErrors++
		var loadErr *rules.LoadError
		path := dir
		if errors.As(err, &loadErr) {
			path = loadErr.Path
		}
		s.pending = append(s.pending, Result{Kind: KindReadError, Path: path, Err: err})
	}

	s.set.Enter(dir, loaded)
	s.stats.RulesLoaded += len(loaded)

	if len(loaded) > 0 {
		s.log.Debug("loaded ignore rules",
			zap.String("dir", dir),
			zap.Int("rules", len(loaded)),
			zap.Int("active_rules", s.set.Len()),
		)
	}
}

// flush yields queued rule-load errors.
func (s *Scanner) flush(yield func(Result) bool) bool {
	for len(s.pending) > 0 {
		r := s.pending[0]
		s.pending = s.pending[1:]
		if !yield(r) {
			return false
		}
	}
	return true
}

// keep drops excluded entries.
func (s *Scanner) keep(entries []filter.Entry, active []rules.Rule) []filter.Entry {
	kept := entries[:0]
	for _, e := range entries {
		if s.filter.ShouldExclude(e, active) {
			excluded := s.filter.Excluded()
			reason := excluded[len(excluded)-1]
			s.log.Debug("excluded entry",
				zap.String("path", e.Path),
				zap.Bool("dir", e.IsDir),
				zap.String("reason", reason.Type),
				zap.String("rule", reason.Rule),
			)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// readFile reads and decodes one file.
func (s *Scanner) readFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		s.stats.ReadErrors++
		s.stats.FileReadErrors++
		return Result{Kind: KindReadError, Path: path, Err: err}
	}

	text, ok := Decode(data)
	if !ok {
		s.stats.DecodeErrors++
		return Result{Kind: KindDecodeError, Path: path}
	}

	s.stats.Files++
	return Result{Kind: KindContent, Path: path, Content: text}
}

// skipped reports whether info is one of the Skip files.
func (s *Scanner) skipped(info os.FileInfo) bool {
	for _, sk := range s.skip {
		if os.SameFile(sk, info) {
			return true
		}
	}
	return false
}

func (s *Scanner) skippedPath(path string) bool {
	if len(s.skip) == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.skipped(info)
}

// Decode returns data as text if it is valid UTF-8. The bytes are kept as they are;
// line endings are not translated.
func Decode(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// joinPath appends name to dir keeping dir exactly as spelled, so "./proj" yields
// "./proj/a.py" rather than the cleaned "proj/a.py".
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// isDirEntry reports whether e is a directory, following symlinks for the answer.
func isDirEntry(dir string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
