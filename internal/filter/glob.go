package filter

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// Match reports whether text matches the shell-style pattern.
// "*" matches any run of characters including "/" and the empty run,
// "?" matches one character and "[...]" is a character class ("[!...]" negates).
// A "]" right after "[" or "[!" is a class member, as is a "-" at either end.
// A "[" with no closing "]" matches itself. Braces and backslashes have no
// special meaning, inside a class or out.
func Match(pattern, text string) bool {
	return compile(pattern).Match(text)
}

// literal matches only its own text. It stands in for a pattern gobwas rejects.
type literal string

func (l literal) Match(s string) bool {
	return string(l) == s
}

// nothing is the matcher of a pattern containing an empty class such as "[z-a]".
type nothing struct{}

func (nothing) Match(string) bool {
	return false
}

// matcher is the subset of glob.Glob used here.
type matcher interface {
	Match(string) bool
}

// compiled caches matchers by pattern text.
var compiled sync.Map // map[string]matcher

func compile(pattern string) matcher {
	if m, ok := compiled.Load(pattern); ok {
		return m.(matcher)
	}

	var m matcher
	if translated, ok := translate(pattern); !ok {
		m = nothing{}
	} else if g, err := glob.Compile(translated); err != nil {
		m = literal(pattern)
	} else {
		m = g
	}

	actual, _ := compiled.LoadOrStore(pattern, m)
	return actual.(matcher)
}

// gobwasSpecial lists the runes gobwas reads as syntax outside a class.
const gobwasSpecial = `*?[]{},\`

// translate rewrites a shell pattern into gobwas syntax. It returns false when the
// pattern holds a class no rune can match.
func translate(pattern string) (string, bool) {
	p := []rune(pattern)

	var b strings.Builder
	b.Grow(len(pattern) + 8)

	for i := 0; i < len(p); i++ {
		switch c := p[i]; c {
		case '*', '?':
			b.WriteRune(c)
		case '[':
			end := classEnd(p, i)
			if end < 0 {
				writeLiteral(&b, c)
				continue
			}
			if !parseClass(p[i+1 : end]).write(&b) {
				return "", false
			}
			i = end
		default:
			writeLiteral(&b, c)
		}
	}

	return b.String(), true
}

// classEnd returns the index of the "]" that closes the class opened at p[start],
// or -1 if there is none.
func classEnd(p []rune, start int) int {
	j := start + 1
	if j < len(p) && p[j] == '!' {
		j++
	}
	if j < len(p) && p[j] == ']' {
		j++
	}
	for ; j < len(p); j++ {
		if p[j] == ']' {
			return j
		}
	}
	return -1
}

func writeLiteral(b *strings.Builder, c rune) {
	if strings.ContainsRune(gobwasSpecial, c) {
		b.WriteByte('\\')
	}
	b.WriteRune(c)
}

type runeRange struct {
	lo, hi rune
}

// class is a parsed "[...]" expression.
type class struct {
	negated bool
	ranges  []runeRange
}

// parseClass reads the text between "[" and "]". Reversed ranges such as "z-a" are
// empty and dropped.
func parseClass(body []rune) class {
	var c class
	if len(body) > 0 && body[0] == '!' {
		c.negated = true
		body = body[1:]
	}

	for i := 0; i < len(body); {
		lo := body[i]
		if i+2 < len(body) && body[i+1] == '-' {
			if hi := body[i+2]; lo <= hi {
				c.ranges = append(c.ranges, runeRange{lo, hi})
			}
			i += 3
			continue
		}
		c.ranges = append(c.ranges, runeRange{lo, lo})
		i++
	}

	return c
}

// write emits c in gobwas syntax and reports false for an empty class.
//
// A gobwas class is either one "lo-hi" range or a list of runes, so a
// non-negated class becomes an alternation of one list and any number of
// ranges, and a negated class is expanded into a single negated list.
func (c class) write(b *strings.Builder) bool {
	if c.negated {
		c.writeNegated(b)
		return true
	}
	if len(c.ranges) == 0 {
		return false
	}

	var singles []rune
	var parts []string
	for _, r := range c.ranges {
		if r.lo == '!' {
			// A leading "!" would negate the range.
			singles = append(singles, '!')
			r.lo++
		}
		switch {
		case r.lo > r.hi:
		case r.lo == r.hi:
			singles = append(singles, r.lo)
		default:
			parts = append(parts, "["+string(r.lo)+"-"+string(r.hi)+"]")
		}
	}

	singles = dedupe(singles)
	switch len(singles) {
	case 0:
	case 1:
		var lit strings.Builder
		writeLiteral(&lit, singles[0])
		parts = append(parts, lit.String())
	default:
		parts = append(parts, "["+runeList(singles)+"]")
	}

	if len(parts) == 1 {
		b.WriteString(parts[0])
		return true
	}
	b.WriteByte('{')
	b.WriteString(strings.Join(parts, ","))
	b.WriteByte('}')
	return true
}

func (c class) writeNegated(b *strings.Builder) {
	var members []rune
	for _, r := range c.ranges {
		for x := r.lo; x <= r.hi; x++ {
			// gobwas reads NUL as end of input; no path holds one.
			if x != 0 && utf8.ValidRune(x) {
				members = append(members, x)
			}
		}
	}
	members = dedupe(members)

	switch {
	case len(members) == 0:
		b.WriteByte('?')
	case len(members) == 1 && members[0] == '-':
		b.WriteString("[!---]")
	default:
		b.WriteString("[!" + runeList(members) + "]")
	}
}

// runeList escapes every rune of a class list. A "-" is moved to the end, since
// gobwas reads a list opening with an escaped "-" as a range.
func runeList(members []rune) string {
	var b strings.Builder
	dash := false
	for _, r := range members {
		if r == '-' {
			dash = true
			continue
		}
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	if dash {
		b.WriteString(`\-`)
	}
	return b.String()
}

func dedupe(runes []rune) []rune {
	seen := make(map[rune]struct{}, len(runes))
	out := runes[:0]
	for _, r := range runes {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
