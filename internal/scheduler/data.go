package scheduler

import (
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/aggregator"
	"github.com/rohmanhakim/csp-hasher/internal/digest"
)

// StdinSource names standard input in a source list.
const StdinSource = "-"

// DocumentResult is the outcome of one input document. Exactly one of
// Hashes and Err is set.
type DocumentResult struct {
	Source      string
	Fingerprint string
	Algorithms  []digest.Algorithm
	// Hashes is the union of every algorithm's hash set.
	Hashes aggregator.HashSet
	// ByElement holds the same expressions keyed by element name.
	ByElement map[string]aggregator.HashSet
	Duration  time.Duration
	Err       error
}

func (r DocumentResult) Failed() bool {
	return r.Err != nil
}

// Execution is the outcome of a run, results in input order.
type Execution struct {
	Results []DocumentResult
}

// FailedCount returns how many documents did not produce a hash set.
func (e Execution) FailedCount() int {
	n := 0
	for _, r := range e.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}
