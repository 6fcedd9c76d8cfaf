package rules

import (
	"path/filepath"
	"strings"
)

// RuleSet holds the ignore rules active while a walk is in progress.
// The walker calls Enter when it loads a directory's rules and Leave once
// that directory's whole subtree has been walked.
type RuleSet interface {
	// Enter makes rules discovered in dir active.
	Enter(dir string, rules []Rule)

	// Leave marks the end of dir's subtree.
	Leave(dir string)

	// Rules returns the active rules in load order.
	// Callers must not modify the returned slice.
	Rules() []Rule

	// Len returns the number of active rules.
	Len() int
}

// Accumulating is a RuleSet that only grows.
// Rules found in one subtree stay active for every sibling and root walked later
// in the same invocation.
type Accumulating struct {
	rules []Rule
}

// NewAccumulating creates an empty accumulating rule set.
func NewAccumulating() *Accumulating {
	return &Accumulating{}
}

// Enter appends rules.
func (a *Accumulating) Enter(_ string, rules []Rule) {
	a.rules = append(a.rules, rules...)
}

// Leave is a no-op; accumulated rules are never pruned.
func (*Accumulating) Leave(string) {}

// Rules returns every rule appended so far.
func (a *Accumulating) Rules() []Rule {
	return a.rules
}

// Len returns the number of rules appended so far.
func (a *Accumulating) Len() int {
	return len(a.rules)
}

// frame is the slice of rules pushed for one directory.
type frame struct {
	dir   string
	start int
}

// Scoped is a RuleSet whose rules apply only below the directory that declared them.
// Entering a directory pushes its rules; leaving it pops them again, so siblings
// never see each other's rules.
type Scoped struct {
	rules  []Rule
	frames []frame
}

// NewScoped creates an empty scoped rule set.
func NewScoped() *Scoped {
	return &Scoped{}
}

// Enter pushes a frame for dir.
func (s *Scoped) Enter(dir string, rules []Rule) {
	s.frames = append(s.frames, frame{dir: filepath.Clean(dir), start: len(s.rules)})
	s.rules = append(s.rules, rules...)
}

// Leave pops the frames pushed for dir and for anything below it.
// Frames pushed for ancestors of dir, such as rules seeded from a root's parent, stay.
func (s *Scoped) Leave(dir string) {
	dir = filepath.Clean(dir)
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		if !within(top.dir, dir) {
			return
		}
		s.rules = s.rules[:top.start]
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Rules returns the rules of every open frame.
func (s *Scoped) Rules() []Rule {
	return s.rules
}

// Len returns the number of rules in open frames.
func (s *Scoped) Len() int {
	return len(s.rules)
}

// Depth returns the number of open frames.
func (s *Scoped) Depth() int {
	return len(s.frames)
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
