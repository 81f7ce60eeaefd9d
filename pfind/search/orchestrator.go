package search

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ZanzyTHEbar/projfind/pfind/common"
)

// Orchestrator wires the matcher, the work-distribution backend and the
// result sink into one runnable search.
type Orchestrator struct {
	opts    Options
	matcher *Matcher
	ignorer *ignore.GitIgnore
	backend backend
	runID   string
}

// New validates opts and builds an Orchestrator. Pattern compilation
// happens here so that an invalid pattern is a fatal configuration
// error reported before any worker starts. When no roots are supplied
// the current working directory is searched.
func New(opts Options) (*Orchestrator, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Backend == "" {
		opts.Backend = BackendQueue
	}
	if len(opts.Roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		opts.Roots = []string{cwd}
	}

	pathUtils := common.NewPathUtils()
	for _, root := range opts.Roots {
		if err := pathUtils.ValidatePath(root); err != nil {
			return nil, fmt.Errorf("invalid root path %q: %w", root, err)
		}
	}

	var matcher *Matcher
	switch {
	case opts.Target != "" && opts.Pattern != "":
		return nil, common.ErrTargetConflict
	case opts.Pattern != "":
		var err error
		matcher, err = NewPatternMatcher(opts.Pattern)
		if err != nil {
			return nil, err
		}
	case opts.Target != "":
		matcher = NewExactMatcher(opts.Target)
	default:
		return nil, common.ErrTargetEmpty
	}

	var ignorer *ignore.GitIgnore
	if len(opts.IgnorePatterns) > 0 {
		ignorer = ignore.CompileIgnoreLines(opts.IgnorePatterns...)
	}

	var b backend
	switch opts.Backend {
	case BackendQueue:
		b = &queueBackend{workers: opts.Workers, handler: assert.NewAssertHandler()}
	case BackendPool:
		b = &poolBackend{workers: opts.Workers}
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, string(opts.Backend))
	}

	return &Orchestrator{
		opts:    opts,
		matcher: matcher,
		ignorer: ignorer,
		backend: b,
		runID:   uuid.NewString(),
	}, nil
}

// Run executes the search to completion and returns every matched
// directory, in no particular order. It returns an error only for a
// fatal failure: a worker that died abnormally makes the whole result
// set untrustworthy.
func (o *Orchestrator) Run() ([]string, error) {
	maxDepth := -1
	if o.opts.MaxDepth != nil {
		maxDepth = *o.opts.MaxDepth
	}

	t := &traversal{
		matcher:  o.matcher,
		sink:     NewResultSink(),
		visited:  newVisitedSet(),
		ignorer:  o.ignorer,
		depths:   common.NewDepthUtils(),
		maxDepth: maxDepth,
		follow:   !o.opts.IgnoreSymlinks,
		onMatch:  o.opts.OnMatch,
	}

	// Claim the roots up front so duplicate roots collapse into one scan.
	roots := make([]WorkItem, 0, len(o.opts.Roots))
	for _, root := range o.opts.Roots {
		if !t.visited.visit(root) {
			continue
		}
		roots = append(roots, WorkItem{Path: root, Depth: 0})
	}

	slog.Info("Starting sentinel search",
		"run_id", o.runID,
		"backend", string(o.opts.Backend),
		"workers", o.opts.Workers,
		"roots", len(roots),
		"max_depth", maxDepth)

	start := time.Now()
	if err := o.backend.run(t, roots); err != nil {
		slog.Error("Sentinel search failed",
			"run_id", o.runID,
			"error", err)
		return nil, err
	}

	results := t.sink.Snapshot()
	slog.Info("Sentinel search complete",
		"run_id", o.runID,
		"matches", len(results),
		"dirs_scanned", t.visited.size(),
		"duration_ms", time.Since(start).Milliseconds())

	return results, nil
}

// Find is the one-shot convenience wrapper around New and Run.
func Find(opts Options) ([]string, error) {
	o, err := New(opts)
	if err != nil {
		return nil, err
	}
	return o.Run()
}

// queueBackend runs a fixed pool of workers fed by the quiescent Queue.
// All workers exit exactly when the queue declares quiescence.
type queueBackend struct {
	workers int
	handler *assert.AssertHandler
}

func (b *queueBackend) run(t *traversal, roots []WorkItem) error {
	queue := NewQueue(b.workers, b.handler)
	queue.Extend(roots)

	// Error-carrying join: a panicking worker is reported as a fatal
	// failure instead of tearing the process down, and it is removed
	// from the stall arithmetic so the survivors still terminate.
	errs := make(chan error, b.workers)
	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					queue.workerLost()
					errs <- fmt.Errorf("%w: worker %d: %v", common.ErrWorkerPanic, id, r)
				}
			}()
			t.runWorker(queue)
		}(i)
	}
	wg.Wait()
	close(errs)

	return <-errs
}
