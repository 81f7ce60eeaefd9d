package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

func TestExactMatcher(t *testing.T) {
	m := NewExactMatcher("TARGET")

	assert.True(t, m.Matches("TARGET"))
	assert.False(t, m.Matches("TARGETS"))
	assert.False(t, m.Matches("xTARGET"))
	assert.False(t, m.Matches("target"))
	assert.False(t, m.Matches(""))
}

func TestPatternMatcherIsAnchored(t *testing.T) {
	m, err := NewPatternMatcher("target.*")
	require.NoError(t, err)

	// Full-string matches succeed.
	assert.True(t, m.Matches("target_file"))
	assert.True(t, m.Matches("targets"))
	assert.True(t, m.Matches("target"))

	// A substring match is never a hit.
	assert.False(t, m.Matches("my_target_file"))
	assert.False(t, m.Matches("xtargets"))
}

func TestPatternMatcherKeepsExplicitAnchors(t *testing.T) {
	m, err := NewPatternMatcher("^Cargo\\.(toml|lock)$")
	require.NoError(t, err)

	assert.True(t, m.Matches("Cargo.toml"))
	assert.True(t, m.Matches("Cargo.lock"))
	assert.False(t, m.Matches("Cargo.tomlx"))
}

func TestPatternMatcherEscapedDollarIsNotAnAnchor(t *testing.T) {
	m, err := NewPatternMatcher(`^foo\$`)
	require.NoError(t, err)

	// The trailing dollar is a literal character, so the pattern still
	// gets full-string anchoring and cannot match a mere prefix.
	assert.True(t, m.Matches("foo$"))
	assert.False(t, m.Matches("foo$bar"))
	assert.False(t, m.Matches("foo"))
}

func TestPatternMatcherInvalidPatternFailsFast(t *testing.T) {
	_, err := NewPatternMatcher("[unclosed")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPatternInvalid)
}
