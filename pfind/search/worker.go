package search

import (
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

// traversal holds the state shared by the workers of one search run.
// The matcher, depth limit and ignore patterns are immutable; the sink
// and visited set guard their own mutable state.
type traversal struct {
	matcher  *Matcher
	sink     *ResultSink
	visited  *visitedSet
	ignorer  *ignore.GitIgnore // nil when no patterns configured
	depths   *common.DepthUtils
	maxDepth int
	follow   bool
	onMatch  func(string)
}

// runWorker is the consume loop of one traversal worker: take a
// directory from the queue, scan it, push its children back. The loop
// ends when Get reports that the queue has stalled.
func (t *traversal) runWorker(queue *Queue) {
	for {
		item, ok := queue.Get()
		if !ok {
			return
		}
		if children := t.processDirectory(item); len(children) > 0 {
			// One batched enqueue per directory, not one Put per child.
			queue.Extend(children)
		}
	}
}

// processDirectory scans a single directory. The first entry whose name
// matches the sentinel records the directory itself as a result and
// prunes its whole subtree: no remaining entries are scanned and no
// children are returned. Otherwise it returns the child directories to
// traverse, each one level deeper.
//
// Directories that cannot be listed and entries that cannot be resolved
// are recoverable conditions: they are skipped, never surfaced as a
// search failure.
func (t *traversal) processDirectory(item WorkItem) []WorkItem {
	entries, err := os.ReadDir(item.Path)
	if err != nil {
		slog.Debug("Skipping unreadable directory",
			"path", item.Path,
			"error", err)
		return nil
	}

	children := make([]WorkItem, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		childPath := filepath.Join(item.Path, name)

		if t.ignorer != nil && t.ignorer.MatchesPath(childPath) {
			slog.Debug("Ignoring entry",
				"path", childPath)
			continue
		}

		if t.matcher.Matches(name) {
			t.sink.Record(item.Path)
			if t.onMatch != nil {
				t.onMatch(item.Path)
			}
			return nil
		}

		if t.depths.ExceedsDepth(t.maxDepth, item.Depth+1) {
			continue
		}

		dirPath, isDir := t.resolveDir(item.Path, entry, childPath)
		if !isDir {
			continue
		}

		children = append(children, WorkItem{Path: dirPath, Depth: item.Depth + 1})
	}

	// Claim only the children that will actually be enqueued. Claiming
	// during the scan would leave dropped children permanently marked
	// when a later entry matches the sentinel, hiding them from any
	// other route (a symlink elsewhere) that resolves to them.
	kept := children[:0]
	for _, child := range children {
		if t.visited.visit(child.Path) {
			kept = append(kept, child)
		}
	}
	return kept
}

// resolveDir reports whether the entry names a directory, resolving at
// most one level of symlink indirection. A link whose target is itself
// a link is treated as opaque, so a self-referential symlink can never
// loop the traversal.
func (t *traversal) resolveDir(parent string, entry os.DirEntry, childPath string) (string, bool) {
	if entry.IsDir() {
		return childPath, true
	}
	if !t.follow || entry.Type()&os.ModeSymlink == 0 {
		return "", false
	}

	target, err := os.Readlink(childPath)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(parent, target)
	}

	info, err := os.Lstat(target)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return filepath.Clean(target), true
}
