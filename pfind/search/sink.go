package search

import (
	"sync"
)

// ResultSink is an append-only collector of matched directory paths.
// It holds its own mutex, disjoint from the queue's locks, so a slow
// result append never blocks work scheduling and vice versa.
type ResultSink struct {
	mu    sync.Mutex
	paths []string
}

// NewResultSink creates an empty ResultSink
func NewResultSink() *ResultSink {
	return &ResultSink{}
}

// Record appends a matched directory path. Entries are never removed
// or mutated after insertion.
func (rs *ResultSink) Record(path string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.paths = append(rs.paths, path)
}

// Snapshot returns a copy of the recorded paths. The orchestrator calls
// it once after every worker has exited.
func (rs *ResultSink) Snapshot() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, len(rs.paths))
	copy(out, rs.paths)
	return out
}
