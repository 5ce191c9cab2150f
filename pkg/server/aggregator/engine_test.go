package aggregator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
)

// newTestEngine returns an engine whose clock is controlled by the test.
func newTestEngine(start int64) (*Engine, *int64) {
	e := NewEngine(logging.NewNoopLogger())
	now := start
	e.now = func() int64 { return now }
	return e, &now
}

func TestEngine_SubmitComputesMedian(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)

	reporters := []string{"node-a", "node-b", "node-c"}
	prices := []float64{100, 200, 300}

	var result ConsensusResult
	for i := range prices {
		result = e.Submit(Submission{
			Price:      prices[i],
			ObservedAt: *now,
			Source:     "exchange",
			ReporterID: reporters[i],
		})
	}

	require.True(t, result.Found)
	assert.Equal(t, 200.0, result.Price)
	assert.Equal(t, 3, result.SampleCount)

	// A fourth submission makes the count even: mean of the two middles.
	result = e.Submit(Submission{Price: 1000, ObservedAt: *now, Source: "exchange", ReporterID: "node-d"})
	require.True(t, result.Found)
	assert.Equal(t, 250.0, result.Price)
	assert.Equal(t, 4, result.SampleCount)
}

func TestEngine_ConsensusGoesStaleButEntriesRemain(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)

	e.Submit(Submission{Price: 50000, ObservedAt: *now, Source: "exchange", ReporterID: "node-a"})

	*now += 61

	result := e.CurrentConsensus()
	assert.False(t, result.Found)
	assert.Zero(t, result.SampleCount)

	// Staleness only excludes entries from the window; it never deletes them.
	recent := e.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, 50000.0, recent[0].Price)
}

func TestEngine_LogCapacityDropsOldestFirst(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)

	total := MaxEntries + 25
	for i := 0; i < total; i++ {
		e.Submit(Submission{
			Price:      float64(i + 1),
			ObservedAt: *now,
			Source:     "exchange",
			ReporterID: "node-a",
		})
	}

	recent := e.Recent(total)
	require.Len(t, recent, MaxEntries)

	// Most recent first, and exactly the last MaxEntries submissions survive.
	assert.Equal(t, float64(total), recent[0].Price)
	assert.Equal(t, float64(total-MaxEntries+1), recent[MaxEntries-1].Price)
}

func TestEngine_SweepHappensOnSubmitOnly(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)

	e.Submit(Submission{Price: 100, ObservedAt: *now, Source: "exchange", ReporterID: "quiet-node"})
	assert.Equal(t, 1, e.Health().ActiveReporters)

	// 121 seconds of silence. Reads never sweep, so the stale reporter is
	// still visible.
	*now += 121
	assert.Equal(t, 1, e.Health().ActiveReporters)
	e.CurrentConsensus()
	assert.Equal(t, 1, e.Health().ActiveReporters)

	// A submission from another reporter triggers the sweep.
	e.Submit(Submission{Price: 100, ObservedAt: *now, Source: "exchange", ReporterID: "other-node"})
	assert.Equal(t, 1, e.Health().ActiveReporters)
}

func TestEngine_RecentOrderAndBounds(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)

	for i := 1; i <= 5; i++ {
		e.Submit(Submission{Price: float64(i), ObservedAt: *now, Source: "exchange", ReporterID: "node-a"})
	}

	recent := e.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, []float64{5, 4, 3}, []float64{recent[0].Price, recent[1].Price, recent[2].Price})

	assert.Len(t, e.Recent(100), 5)
	assert.Nil(t, e.Recent(0))
}

func TestEngine_RecentReturnsCopies(t *testing.T) {
	e, now := newTestEngine(1_700_000_000)
	e.Submit(Submission{Price: 100, ObservedAt: *now, Source: "exchange", ReporterID: "node-a"})

	recent := e.Recent(1)
	recent[0].Price = 999

	assert.Equal(t, 100.0, e.Recent(1)[0].Price)
}

func TestEngine_ConcurrentSubmitsStayConsistent(t *testing.T) {
	e, _ := newTestEngine(1_700_000_000)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.Submit(Submission{
					Price:      50000,
					ObservedAt: 1_700_000_000,
					Source:     "exchange",
					ReporterID: fmt.Sprintf("node-%d", g),
				})
				e.CurrentConsensus()
				e.Recent(10)
				e.Health()
			}
		}(g)
	}
	wg.Wait()

	recent := e.Recent(MaxEntries + 1)
	assert.Len(t, recent, MaxEntries)
	assert.Equal(t, 8, e.Health().ActiveReporters)

	result := e.CurrentConsensus()
	require.True(t, result.Found)
	assert.Equal(t, 50000.0, result.Price)
}
