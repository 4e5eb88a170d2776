// Package cracker implements the concurrent exhaustive search for the
// archive password: partitioning the key space across workers, the
// per-worker verify loop, progress aggregation and the termination
// protocol.
package cracker

// OutcomeKind classifies how a search run (or a single worker) ended.
type OutcomeKind int

const (
	// Found means a candidate decrypted the target entry.
	Found OutcomeKind = iota
	// Unsupported means the archive uses a scheme the reader cannot
	// handle, so no candidate can ever succeed.
	Unsupported
	// WorkerError means a worker died unexpectedly. The run stops
	// rather than risk a false "exhausted" verdict from a degraded
	// worker set.
	WorkerError
	// Exhausted means every candidate in the space was tried.
	Exhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case Found:
		return "found"
	case Unsupported:
		return "unsupported"
	case WorkerError:
		return "worker-error"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Outcome is the single terminal message a worker posts on the result
// channel. Workers that simply run out of candidates post nothing;
// the engine infers exhaustion once every worker has returned without
// one.
type Outcome struct {
	Kind      OutcomeKind
	Candidate string // Found only
	Detail    string // Unsupported and WorkerError only
	Worker    int
}

// Result is what a whole run resolves to.
type Result struct {
	Kind      OutcomeKind
	Candidate string
	Detail    string
	Stats     RunStats
}
