package search

// Backend selects the work-distribution strategy behind a search run
type Backend string

const (
	// BackendQueue distributes work through the quiescent blocking queue.
	// This is the default.
	BackendQueue Backend = "queue"
	// BackendPool submits each directory as its own task on a bounded
	// goroutine pool and terminates on an outstanding-task counter.
	BackendPool Backend = "pool"
)

// Options configures a single search run. The zero value of every
// field is the default: unlimited depth, core-count workers, the queue
// backend, single-level symlink resolution.
type Options struct {
	Target         string       // Sentinel entry name, compared for exact equality
	Pattern        string       // Sentinel pattern, full-string matched; mutually exclusive with Target
	Roots          []string     // Root directories to search; current directory when empty
	MaxDepth       *int         // Maximum depth below each root still scanned (nil = unlimited; 0 = the roots only)
	Workers        int          // Worker count (0 = available CPU cores)
	Backend        Backend      // Work-distribution backend
	IgnorePatterns []string     // gitignore-style patterns pruned from the traversal
	IgnoreSymlinks bool         // Treat symlinks as opaque instead of resolving one level
	OnMatch        func(string) // Optional streaming callback, invoked from worker goroutines
}

// WorkItem is one unit of traversal work: a directory path and its
// depth below the search root. Depth 0 is a root supplied by the
// caller. A WorkItem is immutable once created and is consumed by
// exactly one worker.
type WorkItem struct {
	Path  string
	Depth int
}
