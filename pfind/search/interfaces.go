package search

// backend is the work-distribution strategy behind a search run. Both
// implementations satisfy the same contract: every directory reachable
// from a root is processed exactly once, and run returns only once the
// traversal is quiescent, with no work left and none producible.
type backend interface {
	run(t *traversal, roots []WorkItem) error
}
