package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLivenessTracker_TouchAndCount(t *testing.T) {
	tracker := NewLivenessTracker()
	now := int64(1_700_000_000)

	assert.Equal(t, 0, tracker.ActiveCount())

	tracker.Touch("node-1", now)
	tracker.Touch("node-2", now)
	tracker.Touch("node-1", now+10) // refresh, not a new record
	assert.Equal(t, 2, tracker.ActiveCount())
}

func TestLivenessTracker_TouchNeverRewinds(t *testing.T) {
	tracker := NewLivenessTracker()

	tracker.Touch("node-1", 1000)
	tracker.Touch("node-1", 900) // out-of-order clock reading

	// Still alive at the time implied by the later touch.
	assert.Equal(t, 0, tracker.Sweep(1000+LivenessTimeoutSeconds-1))
	assert.Equal(t, 1, tracker.ActiveCount())
}

func TestLivenessTracker_SweepRemovesExactlyTimedOut(t *testing.T) {
	tracker := NewLivenessTracker()
	now := int64(1_700_000_000)

	tracker.Touch("stale", now-LivenessTimeoutSeconds)    // age == timeout: removed
	tracker.Touch("old", now-LivenessTimeoutSeconds-50)   // removed
	tracker.Touch("fresh", now-LivenessTimeoutSeconds+1)  // kept
	tracker.Touch("recent", now)                          // kept

	removed := tracker.Sweep(now)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, tracker.ActiveCount())
}

func TestLivenessTracker_SweepIsIdempotent(t *testing.T) {
	tracker := NewLivenessTracker()
	now := int64(1_700_000_000)

	tracker.Touch("node-1", now-200)
	tracker.Touch("node-2", now)

	assert.Equal(t, 1, tracker.Sweep(now))
	assert.Equal(t, 0, tracker.Sweep(now))
	assert.Equal(t, 1, tracker.ActiveCount())
}

func TestLivenessTracker_SweepOnEmpty(t *testing.T) {
	tracker := NewLivenessTracker()
	assert.Equal(t, 0, tracker.Sweep(1_700_000_000))
}
