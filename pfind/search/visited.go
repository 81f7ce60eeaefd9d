package search

import (
	"sync"

	"github.com/armon/go-radix"
)

// visitedSet tracks directory paths already claimed by a worker, keyed
// by resolved path. Deep trees share long prefixes, which the patricia
// tree stores compressed. Claiming a path before it is enqueued keeps
// symlink cycles and duplicate roots from being scanned twice.
type visitedSet struct {
	mu   sync.Mutex
	tree *radix.Tree
}

func newVisitedSet() *visitedSet {
	return &visitedSet{tree: radix.New()}
}

// visit marks path as claimed and reports whether this call was the
// first to claim it.
func (vs *visitedSet) visit(path string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	_, updated := vs.tree.Insert(path, struct{}{})
	return !updated
}

// size returns the number of claimed paths
func (vs *visitedSet) size() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.tree.Len()
}
