package search

import (
	"fmt"
	"regexp"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

// Matcher decides whether a directory entry name satisfies the sentinel
// condition. It has no per-call side effects and is shared read-only
// across all workers.
type Matcher struct {
	target  string
	pattern *regexp.Regexp
}

// NewExactMatcher creates a matcher that compares entry names for
// string equality against target.
func NewExactMatcher(target string) *Matcher {
	return &Matcher{target: target}
}

// NewPatternMatcher compiles pattern into a full-string matcher. The
// pattern is anchored at both ends so that a partial match never
// counts as a hit. Compilation failure is a fatal configuration error
// reported before any traversal begins.
func NewPatternMatcher(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(anchor(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", common.ErrPatternInvalid, pattern, err)
	}
	return &Matcher{pattern: re}, nil
}

// Matches reports whether a directory entry name satisfies the sentinel
// condition.
func (m *Matcher) Matches(name string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(name)
	}
	return name == m.target
}

// anchor wraps the pattern unconditionally. Sniffing for caller-written
// anchors is unreliable (a trailing `\$` is a literal dollar, not an
// anchor), and the group keeps explicit `^`/`$` inside the pattern
// working as before.
func anchor(pattern string) string {
	return `\A(?:` + pattern + `)\z`
}
