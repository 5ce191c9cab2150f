package aggregator

import "sort"

// FreshnessWindowSeconds is the span within which a submission counts toward
// consensus. Independent of LivenessTimeoutSeconds: data goes stale for
// pricing before its reporter is considered inactive.
const FreshnessWindowSeconds = 60

// Window computes a consensus value from a bounded sequence of timestamped
// submissions.
type Window struct {
	// FreshnessSeconds is the maximum age of a submission, relative to the
	// computation time, for it to be included.
	FreshnessSeconds int64
}

// NewWindow returns a window with the default freshness span.
func NewWindow() Window {
	return Window{FreshnessSeconds: FreshnessWindowSeconds}
}

// Compute returns the statistical median of the prices observed within the
// freshness window: the middle element for an odd count, the mean of the two
// middle elements for an even count. Duplicate prices count individually.
// found is false when no entry is fresh; callers must treat that as "no
// current price available", not as zero.
func (w Window) Compute(entries []Submission, now int64) (price float64, samples int, found bool) {
	fresh := make([]float64, 0, len(entries))
	for _, e := range entries {
		if now-e.ObservedAt < w.FreshnessSeconds {
			fresh = append(fresh, e.Price)
		}
	}

	if len(fresh) == 0 {
		return 0, 0, false
	}

	sort.Float64s(fresh)

	n := len(fresh)
	if n%2 == 0 {
		return (fresh[n/2-1] + fresh[n/2]) / 2, n, true
	}
	return fresh[n/2], n, true
}
