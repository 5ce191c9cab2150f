package aggregator

import (
	"sync"
	"time"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/metrics"
)

// MaxEntries is the capacity of the submission log. When exceeded, the oldest
// entries are dropped first; arrival order is preserved among survivors.
const MaxEntries = 100

// Engine is the single source of truth for submissions and reporter liveness.
// All shared state lives behind one RWMutex: Submit takes the write lock and
// applies append, trim, liveness touch, sweep and consensus as one atomic
// unit; reads may run concurrently with each other but never interleave with
// an in-progress Submit. State never escapes by reference; only copies cross
// the boundary.
type Engine struct {
	mu       sync.RWMutex
	entries  []Submission
	liveness *LivenessTracker
	window   Window
	logger   *logging.Logger

	// now is the engine clock; tests override it to simulate elapsed time.
	now func() int64
}

// NewEngine creates an engine with an empty log. Multiple engines can
// coexist; nothing is process-global.
func NewEngine(logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Engine{
		liveness: NewLivenessTracker(),
		window:   NewWindow(),
		logger:   logger,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// Submit appends a submission to the log, refreshes the reporter's liveness,
// evicts stale reporters and returns the consensus over the updated log.
// The caller is responsible for price validation; Submit never fails on
// well-formed input.
//
// Stale reporters are swept only here, never on reads. A quiet period with no
// submissions therefore leaves inactive reporters visible to Health until the
// next submission arrives.
func (e *Engine) Submit(sub Submission) ConsensusResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	e.logger.Info("Received price submission",
		"price", sub.Price,
		"reporter", sub.ReporterID,
		"source", sub.Source)

	e.entries = append(e.entries, sub)
	if len(e.entries) > MaxEntries {
		// Drop the oldest entries, copying so the trimmed backing array
		// does not pin dropped submissions.
		e.entries = append(e.entries[:0], e.entries[len(e.entries)-MaxEntries:]...)
	}

	e.liveness.Touch(sub.ReporterID, now)
	if removed := e.liveness.Sweep(now); removed > 0 {
		e.logger.Info("Swept inactive reporters", "removed", removed)
	}

	metrics.RecordSubmission(sub.Source, sub.ReporterID)
	metrics.RecordActiveReporters(e.liveness.ActiveCount())

	result := e.computeLocked(now)
	if result.Found {
		e.logger.Info("Current consensus price", "price", result.Price, "samples", result.SampleCount)
	}
	return result
}

// Recent returns up to n submissions, most recent first. It does not mutate
// state.
func (e *Engine) Recent(n int) []Submission {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if n > len(e.entries) {
		n = len(e.entries)
	}
	if n <= 0 {
		return nil
	}

	recent := make([]Submission, 0, n)
	for i := len(e.entries) - 1; i >= len(e.entries)-n; i-- {
		recent = append(recent, e.entries[i])
	}
	return recent
}

// CurrentConsensus recomputes the consensus over the current log. It is
// read-only: unlike Submit it never sweeps liveness.
func (e *Engine) CurrentConsensus() ConsensusResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.computeLocked(e.now())
}

// Health returns a snapshot of reporter liveness.
func (e *Engine) Health() HealthSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return HealthSnapshot{ActiveReporters: e.liveness.ActiveCount()}
}

// computeLocked computes the consensus. Callers must hold e.mu.
func (e *Engine) computeLocked(now int64) ConsensusResult {
	start := time.Now()
	price, samples, found := e.window.Compute(e.entries, now)

	if found {
		metrics.RecordConsensus(price, samples, time.Since(start))
	}

	return ConsensusResult{
		Price:       price,
		Found:       found,
		SampleCount: samples,
		ComputedAt:  now,
	}
}
