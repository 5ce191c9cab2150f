package aggregator

// LivenessTimeoutSeconds is the span after which a silent reporter is
// considered inactive. A reporter stays alive for monitoring longer than its
// data stays fresh for pricing.
const LivenessTimeoutSeconds = 120

// LivenessTracker maps reporter identity to last-seen time. It is not safe
// for concurrent use; the Engine serializes access to it.
type LivenessTracker struct {
	lastSeen map[string]int64
}

// NewLivenessTracker returns an empty tracker.
func NewLivenessTracker() *LivenessTracker {
	return &LivenessTracker{
		lastSeen: make(map[string]int64),
	}
}

// Touch records or refreshes the last-seen time for a reporter. The recorded
// time never moves backwards while the reporter keeps submitting.
func (t *LivenessTracker) Touch(reporterID string, now int64) {
	if last, ok := t.lastSeen[reporterID]; ok && last > now {
		return
	}
	t.lastSeen[reporterID] = now
}

// Sweep removes every record whose age has reached the liveness timeout and
// returns the number removed. Idempotent on an already-clean state.
func (t *LivenessTracker) Sweep(now int64) int {
	removed := 0
	for id, last := range t.lastSeen {
		if now-last >= LivenessTimeoutSeconds {
			delete(t.lastSeen, id)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of reporters currently tracked.
func (t *LivenessTracker) ActiveCount() int {
	return len(t.lastSeen)
}
