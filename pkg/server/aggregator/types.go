// Package aggregator owns the submission log and reporter liveness state and
// computes the median consensus price over fresh submissions.
package aggregator

// Submission is one observed price report from a reporter.
type Submission struct {
	Price      float64 `json:"price"`
	ObservedAt int64   `json:"timestamp"` // Unix seconds, supplied by the reporter
	Source     string  `json:"source"`
	ReporterID string  `json:"reporter_id"`
}

// ConsensusResult is the outcome of a consensus computation. It is derived on
// demand from the current log, never stored.
type ConsensusResult struct {
	Price       float64 // meaningful only when Found is true
	Found       bool    // false when no submission is within the freshness window
	SampleCount int     // fresh submissions included in the computation
	ComputedAt  int64   // Unix seconds
}

// HealthSnapshot is a read-only view of reporter liveness.
type HealthSnapshot struct {
	ActiveReporters int
}
