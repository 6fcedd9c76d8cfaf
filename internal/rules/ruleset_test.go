package rules

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulating(t *testing.T) {
	t.Parallel()

	t.Run("StartsEmpty", func(t *testing.T) {
		t.Parallel()
		set := NewAccumulating()
		assert.Empty(t, set.Rules())
		assert.Equal(t, 0, set.Len())
	})

	t.Run("AppendsInOrder", func(t *testing.T) {
		t.Parallel()
		set := NewAccumulating()
		set.Enter("proj", []Rule{"a", "b"})
		set.Enter("proj/sub", []Rule{"c"})

		assert.Equal(t, []Rule{"a", "b", "c"}, set.Rules())
		assert.Equal(t, 3, set.Len())
	})

	t.Run("LeaveKeepsRules", func(t *testing.T) {
		t.Parallel()
		set := NewAccumulating()
		set.Enter("proj/first", []Rule{"*.log"})
		set.Leave("proj/first")
		set.Enter("proj/second", nil)

		// Rules from a finished sibling are still active.
		assert.Equal(t, []Rule{"*.log"}, set.Rules())
	})
}

func TestScoped(t *testing.T) {
	t.Parallel()

	t.Run("PopsOnLeave", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("proj", []Rule{"root"})
		set.Enter(filepath.Join("proj", "first"), []Rule{"*.log"})

		assert.Equal(t, []Rule{"root", "*.log"}, set.Rules())

		set.Leave(filepath.Join("proj", "first"))
		assert.Equal(t, []Rule{"root"}, set.Rules())
		assert.Equal(t, 1, set.Depth())
	})

	t.Run("SiblingsAreIsolated", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("proj", nil)
		set.Enter(filepath.Join("proj", "a"), []Rule{"from-a"})
		set.Leave(filepath.Join("proj", "a"))
		set.Enter(filepath.Join("proj", "b"), []Rule{"from-b"})

		assert.Equal(t, []Rule{"from-b"}, set.Rules())
	})

	t.Run("LeavePopsDescendants", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("proj", []Rule{"p"})
		set.Enter(filepath.Join("proj", "a"), []Rule{"a"})
		set.Enter(filepath.Join("proj", "a", "b"), []Rule{"b"})

		set.Leave("proj")

		assert.Empty(t, set.Rules())
		assert.Equal(t, 0, set.Depth())
	})

	t.Run("LeaveKeepsAncestors", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter(".", []Rule{"seeded"})
		set.Enter("proj", []Rule{"p"})

		set.Leave("proj")

		assert.Equal(t, []Rule{"seeded"}, set.Rules())
	})

	t.Run("LeaveUnknownDirIsNoop", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("proj", []Rule{"p"})

		set.Leave("other")

		assert.Equal(t, []Rule{"p"}, set.Rules())
	})

	t.Run("CleansPaths", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("./proj/", []Rule{"p"})

		set.Leave("proj")

		assert.Empty(t, set.Rules())
	})

	t.Run("SiblingWithSharedPrefix", func(t *testing.T) {
		t.Parallel()
		set := NewScoped()
		set.Enter("proj", []Rule{"p"})

		// "projects" is not below "proj".
		set.Leave("projects")

		assert.Equal(t, []Rule{"p"}, set.Rules())
	})
}

func TestWithin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		dir      string
		expected bool
	}{
		{name: "Same", path: "proj", dir: "proj", expected: true},
		{name: "Child", path: filepath.Join("proj", "a"), dir: "proj", expected: true},
		{name: "Parent", path: ".", dir: "proj", expected: false},
		{name: "Sibling", path: "other", dir: "proj", expected: false},
		{name: "DotDotPrefixedName", path: "..foo", dir: ".", expected: true},
		{name: "MixedAbsRel", path: "/abs", dir: "rel", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, within(tt.path, tt.dir))
		})
	}
}

func TestRuleSetImplementations(t *testing.T) {
	t.Parallel()

	var _ RuleSet = NewAccumulating()
	var _ RuleSet = NewScoped()
}
