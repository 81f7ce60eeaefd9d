package search

import (
	"os"
	"path/filepath"
	"testing"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

func newTestTraversal(m *Matcher) *traversal {
	return &traversal{
		matcher:  m,
		sink:     NewResultSink(),
		visited:  newVisitedSet(),
		depths:   common.NewDepthUtils(),
		maxDepth: -1,
		follow:   true,
	}
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestProcessDirectoryFirstMatchPrunesSubtree(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "TARGET"))
	mkdirAll(t, filepath.Join(root, "sub"))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})

	// The match records the containing directory and nothing is descended.
	assert.Empty(t, children)
	assert.Equal(t, []string{root}, tr.sink.Snapshot())
}

func TestProcessDirectoryMatchLeavesPrunedChildrenUnclaimed(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "aaa_sub")
	mkdirAll(t, sub)
	// Sorts after the subdirectory, so the scan collects the child
	// before hitting the sentinel.
	touch(t, filepath.Join(root, "zzz_sentinel"))

	tr := newTestTraversal(NewExactMatcher("zzz_sentinel"))
	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})

	assert.Empty(t, children)
	assert.Equal(t, []string{root}, tr.sink.Snapshot())
	// The pruned child was never claimed, so another route to it (a
	// symlink elsewhere) can still scan it.
	assert.True(t, tr.visited.visit(sub))
}

func TestProcessDirectoryCollectsChildren(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "a"))
	mkdirAll(t, filepath.Join(root, "b"))
	touch(t, filepath.Join(root, "file.txt"))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	children := tr.processDirectory(WorkItem{Path: root, Depth: 3})

	require.Len(t, children, 2)
	for _, child := range children {
		assert.Equal(t, 4, child.Depth)
	}
	assert.Empty(t, tr.sink.Snapshot())
}

func TestProcessDirectoryUnreadableIsRecoverable(t *testing.T) {
	tr := newTestTraversal(NewExactMatcher("TARGET"))

	children := tr.processDirectory(WorkItem{Path: filepath.Join(t.TempDir(), "missing"), Depth: 0})

	assert.Empty(t, children)
	assert.Empty(t, tr.sink.Snapshot())
}

func TestProcessDirectoryDepthCutoff(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "child"))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	tr.maxDepth = 2

	// Child would be at depth 3, beyond the cutoff.
	children := tr.processDirectory(WorkItem{Path: root, Depth: 2})
	assert.Empty(t, children)

	// At depth 1 the child lands exactly on the cutoff and is kept.
	tr2 := newTestTraversal(NewExactMatcher("TARGET"))
	tr2.maxDepth = 2
	children = tr2.processDirectory(WorkItem{Path: root, Depth: 1})
	assert.Len(t, children, 1)
}

func TestProcessDirectoryIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "node_modules"))
	mkdirAll(t, filepath.Join(root, "src"))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	tr.ignorer = ignore.CompileIgnoreLines("node_modules")

	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})

	require.Len(t, children, 1)
	assert.Equal(t, filepath.Join(root, "src"), children[0].Path)
}

func TestResolveDirFollowsOneSymlinkLevel(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real")
	mkdirAll(t, real)
	require.NoError(t, os.Symlink(real, filepath.Join(root, "link")))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})

	// The real directory and the link resolve to the same path; the
	// visited set collapses them into one child.
	require.Len(t, children, 1)
	assert.Equal(t, real, children[0].Path)
}

func TestResolveDirTreatsLinkToLinkAsOpaque(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real")
	mkdirAll(t, real)
	inner := filepath.Join(root, "inner")
	require.NoError(t, os.Symlink(real, inner))
	require.NoError(t, os.Symlink(inner, filepath.Join(root, "outer")))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})

	// real (directly and via the single-level "inner" link) is one
	// child; "outer" needs two resolutions and is skipped.
	require.Len(t, children, 1)
	assert.Equal(t, real, children[0].Path)
}

func TestProcessDirectorySelfSymlinkTerminates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Symlink(root, filepath.Join(root, "self")))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	require.True(t, tr.visited.visit(root))

	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})
	assert.Empty(t, children, "self link resolves back to a visited path")
}

func TestProcessDirectorySymlinksIgnoredWhenNotFollowing(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real")
	mkdirAll(t, real)
	require.NoError(t, os.Symlink(real, filepath.Join(root, "link")))

	tr := newTestTraversal(NewExactMatcher("TARGET"))
	tr.follow = false

	children := tr.processDirectory(WorkItem{Path: root, Depth: 0})
	require.Len(t, children, 1)
	assert.Equal(t, real, children[0].Path)
}
